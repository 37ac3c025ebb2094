package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// MediaState distinguishes the three states a media field can be in.
type MediaState int

const (
	// MediaAbsent means no file at all.
	MediaAbsent MediaState = iota
	// MediaPending is a locally held payload not yet transmitted to the
	// remote store.
	MediaPending
	// MediaPersisted is an opaque reference to a file the remote store
	// already holds.
	MediaPersisted
)

// Media models a file field that is either a pending upload, a reference to
// an already-stored remote file, or absent. The zero value is absent.
type Media struct {
	state     MediaState
	filename  string
	payload   []byte
	reference string
}

// NoMedia returns the absent value.
func NoMedia() Media {
	return Media{}
}

// PendingMedia wraps a locally held payload awaiting upload.
func PendingMedia(filename string, payload []byte) Media {
	return Media{state: MediaPending, filename: filename, payload: payload}
}

// PersistedMedia wraps an opaque remote reference string.
func PersistedMedia(reference string) Media {
	if reference == "" {
		return Media{}
	}
	return Media{state: MediaPersisted, reference: reference}
}

func (m Media) State() MediaState { return m.state }
func (m Media) IsAbsent() bool    { return m.state == MediaAbsent }
func (m Media) IsPending() bool   { return m.state == MediaPending }
func (m Media) IsPersisted() bool { return m.state == MediaPersisted }

// Filename returns the local filename of a pending upload.
func (m Media) Filename() string { return m.filename }

// Payload returns the raw bytes of a pending upload.
func (m Media) Payload() []byte { return m.payload }

// Reference returns the remote reference of a persisted file.
func (m Media) Reference() string { return m.reference }

// Clone copies the media value, including the pending payload bytes.
func (m Media) Clone() Media {
	if m.state != MediaPending {
		return m
	}
	payload := make([]byte, len(m.payload))
	copy(payload, m.payload)
	return Media{state: MediaPending, filename: m.filename, payload: payload}
}

// mediaJSON is the wire shape used by the editor API: a persisted file is
// {"reference": "..."}, a pending upload is {"filename": "...", "data": base64},
// absent is null.
type mediaJSON struct {
	Reference string `json:"reference,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Data      string `json:"data,omitempty"`
}

func (m Media) MarshalJSON() ([]byte, error) {
	switch m.state {
	case MediaPending:
		return json.Marshal(mediaJSON{
			Filename: m.filename,
			Data:     base64.StdEncoding.EncodeToString(m.payload),
		})
	case MediaPersisted:
		return json.Marshal(mediaJSON{Reference: m.reference})
	default:
		return []byte("null"), nil
	}
}

func (m *Media) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Media{}
		return nil
	}
	// Tolerate a bare reference string, which is how the remote API
	// represents stored files.
	var ref string
	if err := json.Unmarshal(data, &ref); err == nil {
		*m = PersistedMedia(ref)
		return nil
	}

	var raw mediaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid media value: %w", err)
	}
	switch {
	case raw.Data != "":
		payload, err := base64.StdEncoding.DecodeString(raw.Data)
		if err != nil {
			return fmt.Errorf("invalid media payload encoding: %w", err)
		}
		*m = PendingMedia(raw.Filename, payload)
	case raw.Reference != "":
		*m = PersistedMedia(raw.Reference)
	default:
		*m = Media{}
	}
	return nil
}
