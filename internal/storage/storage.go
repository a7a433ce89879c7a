package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

const trackHistoryLimit = 50

type Storage struct {
	ds *dataStore
}

// TrackHistoryRecord is one played track as persisted per guild.
type TrackHistoryRecord struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Requester string    `json:"requester"`
	PlayedAt  time.Time `json:"played_at"`
}

// Controller holds the binding of a guild's controller text channel.
type Controller struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

type Record struct {
	Controller   *Controller          `json:"controller,omitempty"`
	Volume       int                  `json:"volume"`
	LoopMode     string               `json:"loop_mode"`
	Autoplay     bool                 `json:"autoplay"`
	TrackHistory []TrackHistoryRecord `json:"track_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := newDataStore(DefaultStoreConfig(filePath))
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func (s *Storage) Save() error {
	return s.ds.Save()
}

// GuildIDs returns every guild that has a stored record.
func (s *Storage) GuildIDs() []string {
	return s.ds.Keys()
}

func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{
			Volume:       100,
			LoopMode:     "off",
			TrackHistory: []TrackHistoryRecord{},
		}
		s.ds.Set(guildID, newRecord)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	err = json.Unmarshal(jsonData, &record)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	if record.Volume == 0 {
		record.Volume = 100
	}
	if record.LoopMode == "" {
		record.LoopMode = "off"
	}
	if len(record.TrackHistory) > trackHistoryLimit {
		record.TrackHistory = record.TrackHistory[len(record.TrackHistory)-trackHistoryLimit:]
	}

	return &record, nil
}

// AppendTrackToHistory records a played track, keeping the newest entries.
func (s *Storage) AppendTrackToHistory(guildID string, track TrackHistoryRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.TrackHistory = append(record.TrackHistory, track)
	if len(record.TrackHistory) > trackHistoryLimit {
		record.TrackHistory = record.TrackHistory[len(record.TrackHistory)-trackHistoryLimit:]
	}
	s.ds.Set(guildID, record)
	return nil
}

func (s *Storage) FetchTrackHistory(guildID string) ([]TrackHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TrackHistory, nil
}

func (s *Storage) SetController(guildID string, ctrl Controller) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.Controller = &ctrl
	s.ds.Set(guildID, record)
	return nil
}

func (s *Storage) GetController(guildID string) (*Controller, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	if record.Controller == nil {
		return nil, fmt.Errorf("no controller channel set for this guild")
	}
	return record.Controller, nil
}

func (s *Storage) ClearController(guildID string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.Controller = nil
	s.ds.Set(guildID, record)
	return nil
}

func (s *Storage) SetVolume(guildID string, volume int) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.Volume = volume
	s.ds.Set(guildID, record)
	return nil
}

func (s *Storage) GetVolume(guildID string) (int, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return record.Volume, nil
}

func (s *Storage) SetLoopMode(guildID string, mode string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.LoopMode = mode
	s.ds.Set(guildID, record)
	return nil
}

func (s *Storage) GetLoopMode(guildID string) (string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.LoopMode, nil
}

func (s *Storage) SetAutoplay(guildID string, enabled bool) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.Autoplay = enabled
	s.ds.Set(guildID, record)
	return nil
}

func (s *Storage) GetAutoplay(guildID string) (bool, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return false, err
	}
	return record.Autoplay, nil
}
