package command

var registry = map[string]Command{}

// Register adds a command to the registry, wrapped in the given
// middlewares, under its name and aliases.
func Register(cmd Command, mws ...Middleware) {
	cmd = ApplyMiddlewares(cmd, mws...)
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

// Get returns the command with the given name.
func Get(name string) (Command, bool) {
	cmd, ok := registry[name]
	return cmd, ok
}

// All returns all registered commands, deduplicated across aliases.
func All() []Command {
	seen := map[string]bool{}
	list := make([]Command, 0, len(registry))
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}
