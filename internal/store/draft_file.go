package store

import (
    "encoding/json"
    "errors"
    "io/fs"
    "os"
    "path/filepath"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

const draftFileName = "draft.json"

// FileDraftStore keeps the draft as a JSON file under the client data
// directory, the desktop analogue of browser local storage.
type FileDraftStore struct {
    path string
}

// NewFileDraftStore creates the data directory if needed and returns
// a store writing to <dir>/draft.json.
func NewFileDraftStore(dir string) (*FileDraftStore, error) {
    if err := os.MkdirAll(dir, 0o700); err != nil {
        return nil, err
    }
    return &FileDraftStore{path: filepath.Join(dir, draftFileName)}, nil
}

// Save overwrites the slot.  The write goes through a temp file and a
// rename so a crash mid-write cannot leave a torn draft behind.
func (s *FileDraftStore) Save(draft model.ReservationDraft) error {
    b, err := json.Marshal(draft)
    if err != nil {
        return err
    }
    tmp := s.path + ".tmp"
    if err := os.WriteFile(tmp, b, 0o600); err != nil {
        return err
    }
    return os.Rename(tmp, s.path)
}

// Load reads the slot, returning (nil, nil) when it is empty.  A
// corrupt file is treated as empty: the draft is advisory state and
// the flow must keep working without it.
func (s *FileDraftStore) Load() (*model.ReservationDraft, error) {
    b, err := os.ReadFile(s.path)
    if errors.Is(err, fs.ErrNotExist) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    var draft model.ReservationDraft
    if err := json.Unmarshal(b, &draft); err != nil {
        return nil, nil
    }
    return &draft, nil
}

// Clear empties the slot.  Clearing an already-empty slot succeeds.
func (s *FileDraftStore) Clear() error {
    err := os.Remove(s.path)
    if errors.Is(err, fs.ErrNotExist) {
        return nil
    }
    return err
}
