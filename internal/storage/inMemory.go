package storage

import "fmt"

type InMemoryStorage struct {
	blobs   map[string][]byte
	key     string
	saveErr error
}

func NewInMemoryStorage(key string) *InMemoryStorage {
	return &InMemoryStorage{
		blobs: make(map[string][]byte),
		key:   key,
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemoryStorage) Load() ([]byte, bool, error) {
	blob, ok := inMem.blobs[inMem.key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

func (inMem *InMemoryStorage) Save(blob []byte) error {
	if inMem.saveErr != nil {
		return fmt.Errorf("failed to save ledger blob '%s': %w", inMem.key, inMem.saveErr)
	}
	stored := make([]byte, len(blob))
	copy(stored, blob)
	inMem.blobs[inMem.key] = stored
	return nil
}

// Put stores blob as-is, bypassing any injected save error.
func (inMem *InMemoryStorage) Put(blob []byte) {
	inMem.blobs[inMem.key] = blob
}

// FailSaves makes every following Save return err; nil restores normal saves.
func (inMem *InMemoryStorage) FailSaves(err error) {
	inMem.saveErr = err
}

func (inMem *InMemoryStorage) Close() error {
	return nil
}
