// Package agencystore persists agencies created by the reference backend in
// a bbolt file.
package agencystore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"agencyui/internal/domain"
)

const (
	agenciesBucketName = "agencies"
	orderBucketName    = "order"
)

var ErrStoreClosed = errors.New("agency store is closed")

type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
	now    func() time.Time
}

func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("agency store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure agency store dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open agency store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{agenciesBucketName, orderBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: trimmed, now: time.Now}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Create stores the items as a new agency with a fresh id.
func (s *Store) Create(items domain.Composition) (domain.Agency, error) {
	agency := domain.Agency{
		ID:        uuid.NewString(),
		Items:     items.Clone(),
		CreatedAt: s.now().UTC(),
	}
	if agency.Items == nil {
		agency.Items = domain.Composition{}
	}
	data, err := json.Marshal(agency)
	if err != nil {
		return domain.Agency{}, fmt.Errorf("encode agency: %w", err)
	}
	err = s.update(func(tx *bolt.Tx) error {
		order := tx.Bucket([]byte(orderBucketName))
		seq, err := order.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		if err := order.Put(sequenceKey(seq), []byte(agency.ID)); err != nil {
			return fmt.Errorf("write order: %w", err)
		}
		if err := tx.Bucket([]byte(agenciesBucketName)).Put([]byte(agency.ID), data); err != nil {
			return fmt.Errorf("write agency: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Agency{}, err
	}
	return agency, nil
}

func (s *Store) Get(id string) (domain.Agency, error) {
	var agency domain.Agency
	err := s.view(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(agenciesBucketName)).Get([]byte(id))
		if data == nil {
			return domain.ErrAgencyNotFound
		}
		return decodeAgency(data, &agency)
	})
	return agency, err
}

// List returns agencies in creation order.
func (s *Store) List() ([]domain.Agency, error) {
	out := []domain.Agency{}
	err := s.view(func(tx *bolt.Tx) error {
		records := tx.Bucket([]byte(agenciesBucketName))
		return tx.Bucket([]byte(orderBucketName)).ForEach(func(_, id []byte) error {
			data := records.Get(id)
			if data == nil {
				return nil
			}
			var agency domain.Agency
			if err := decodeAgency(data, &agency); err != nil {
				return err
			}
			out = append(out, agency)
			return nil
		})
	})
	return out, err
}

func (s *Store) Count() (int, error) {
	var n int
	err := s.view(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(agenciesBucketName)).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func decodeAgency(data []byte, agency *domain.Agency) error {
	if err := json.Unmarshal(data, agency); err != nil {
		return fmt.Errorf("decode agency: %w", err)
	}
	return nil
}
