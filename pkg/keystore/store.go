package keystore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/taurusgroup/feldman-vss/pkg/party"
)

var ErrNotFound = errors.New("keystore: not found")

// Store persists finalized records.
type Store interface {
	// Save persists r, replacing any record with the same ID.
	// Records that are not finalized are rejected with ErrNotFinalized.
	Save(ctx context.Context, r *Record) error
	// Load returns the record of party id, or ErrNotFound.
	Load(ctx context.Context, id party.ID) (*Record, error)
	// List returns the sorted IDs of the parties whose record is stored.
	List(ctx context.Context) (party.IDSlice, error)
}

// MemoryStore keeps encoded records in memory.
type MemoryStore struct {
	mtx     sync.Mutex
	records map[party.ID][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[party.ID][]byte)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, r *Record) error {
	data, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.records[r.ID] = data
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id party.ID) (*Record, error) {
	s.mtx.Lock()
	data, ok := s.records[id]
	s.mtx.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: party %v", ErrNotFound, id)
	}
	r := new(Record)
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return r, nil
}

// List implements Store.
func (s *MemoryStore) List(context.Context) (party.IDSlice, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	ids := make([]party.ID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return party.NewIDSlice(ids), nil
}

const (
	fileMagic   uint32 = 0x46564b53 // 'FVKS'
	fileVersion uint16 = 1
	headerSize         = 4 + 2 + 4 + 4
)

// FileStore keeps one file per party in a directory.
//
// Files are written atomically: the record goes to a temporary file which is
// synced and then renamed over the previous one.
// On disk: [magic u32][version u16][length u32][crc32 u32][cbor record].
type FileStore struct {
	mtx sync.Mutex
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("keystore: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

const (
	filePrefix = "keystore-"
	fileSuffix = ".dat"
)

// Path returns the file holding the record of party id.
func (s *FileStore) Path(id party.ID) string {
	return filepath.Join(s.dir, filePrefix+id.String()+fileSuffix)
}

// List implements Store. Files whose name does not hold a valid party ID are ignored.
func (s *FileStore) List(ctx context.Context) (party.IDSlice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mtx.Lock()
	entries, err := os.ReadDir(s.dir)
	s.mtx.Unlock()
	if err != nil {
		return nil, fmt.Errorf("keystore: list: %w", err)
	}
	ids := make([]party.ID, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id, err := party.IDFromString(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return party.NewIDSlice(ids), nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, r *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := r.MarshalBinary()
	if err != nil {
		return err
	}

	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[0:], fileMagic)
	binary.BigEndian.PutUint16(hdr[4:], fileVersion)
	binary.BigEndian.PutUint32(hdr[6:], uint32(len(body)))
	binary.BigEndian.PutUint32(hdr[10:], crc32.ChecksumIEEE(body))

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if err = writeAtomic(s.Path(r.ID), hdr[:], body); err != nil {
		return fmt.Errorf("keystore: save %v: %w", r.ID, err)
	}
	return nil
}

func writeAtomic(path string, chunks ...[]byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if _, err = f.Write(c); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		return err
	}
	if d, err := os.Open(filepath.Dir(path)); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, id party.ID) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mtx.Lock()
	data, err := os.ReadFile(s.Path(id))
	s.mtx.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: party %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("keystore: load %v: %w", id, err)
	}

	if len(data) < headerSize {
		return nil, fmt.Errorf("keystore: load %v: truncated header", id)
	}
	if binary.BigEndian.Uint32(data[0:]) != fileMagic {
		return nil, fmt.Errorf("keystore: load %v: bad magic", id)
	}
	if v := binary.BigEndian.Uint16(data[4:]); v != fileVersion {
		return nil, fmt.Errorf("keystore: load %v: unsupported version %d", id, v)
	}
	length := binary.BigEndian.Uint32(data[6:])
	body := data[headerSize:]
	if uint32(len(body)) != length {
		return nil, fmt.Errorf("keystore: load %v: length mismatch", id)
	}
	if crc32.ChecksumIEEE(body) != binary.BigEndian.Uint32(data[10:]) {
		return nil, fmt.Errorf("keystore: load %v: crc mismatch", id)
	}

	r := new(Record)
	if err = r.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	if r.ID != id {
		return nil, fmt.Errorf("keystore: load %v: file holds record of %v", id, r.ID)
	}
	return r, nil
}
