package noticestore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// Key layout: "n/" + escaped volunteerID + "/" + 8-byte big-endian sequence.
// The id is path-escaped so an id containing "/" cannot produce keys inside
// another volunteer's range. Big-endian sequences make lexical key order
// equal creation order, so List is a single forward range scan and Clear a
// single range delete.
const keyPrefix = "n/"

// PebbleStore implements Store on a Pebble database.
type PebbleStore struct {
	db *pebble.DB

	// mu serializes sequence allocation and clear; reads take it only long
	// enough to snapshot the iterator bounds.
	mu     sync.Mutex
	nextSq map[string]uint64
	lastTS map[string]time.Time
}

// OpenPebble creates or opens a Pebble-backed notice store at dir.
func OpenPebble(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("noticestore: open pebble at %s: %w", dir, err)
	}
	return &PebbleStore{
		db:     db,
		nextSq: make(map[string]uint64),
		lastTS: make(map[string]time.Time),
	}, nil
}

// Close releases the underlying database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

// Create appends a notice under the volunteer's next sequence number.
func (s *PebbleStore) Create(_ context.Context, volunteerID string, d Draft) (model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.nextSeqLocked(volunteerID)
	if err != nil {
		return model.Notice{}, err
	}

	n := model.Notice{
		ID:          uuid.NewString(),
		VolunteerID: volunteerID,
		Title:       d.Title,
		Body:        d.Body,
		Type:        model.NormalizeNoticeType(d.Type),
		CreatedAt:   monotonicNow(s.lastTS[volunteerID]),
	}
	b, err := json.Marshal(n)
	if err != nil {
		return model.Notice{}, fmt.Errorf("noticestore: encode notice: %w", err)
	}
	if err := s.db.Set(noticeKey(volunteerID, seq), b, pebble.Sync); err != nil {
		return model.Notice{}, fmt.Errorf("noticestore: write notice: %w", err)
	}
	s.nextSq[volunteerID] = seq + 1
	s.lastTS[volunteerID] = n.CreatedAt
	return n, nil
}

// List scans the volunteer's key range in ascending sequence order.
func (s *PebbleStore) List(_ context.Context, volunteerID string) ([]model.Notice, error) {
	lo, hi := keyBounds(volunteerID)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return nil, fmt.Errorf("noticestore: open iterator: %w", err)
	}
	defer func() { _ = it.Close() }()

	var out []model.Notice
	for ok := it.First(); ok; ok = it.Next() {
		var n model.Notice
		if err := json.Unmarshal(it.Value(), &n); err != nil {
			return nil, fmt.Errorf("noticestore: decode notice: %w", err)
		}
		out = append(out, n)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("noticestore: scan notices: %w", err)
	}
	return out, nil
}

// Clear deletes the volunteer's whole key range in one ranged delete and
// reports how many notices it held.
func (s *PebbleStore) Clear(_ context.Context, volunteerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := keyBounds(volunteerID)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return 0, fmt.Errorf("noticestore: open iterator: %w", err)
	}
	count := 0
	for ok := it.First(); ok; ok = it.Next() {
		count++
	}
	if err := it.Close(); err != nil {
		return 0, fmt.Errorf("noticestore: scan notices: %w", err)
	}

	if err := s.db.DeleteRange(lo, hi, pebble.Sync); err != nil {
		return 0, fmt.Errorf("noticestore: clear notices: %w", err)
	}
	delete(s.nextSq, volunteerID)
	return count, nil
}

// nextSeqLocked returns the volunteer's next sequence, recovering it from
// the last stored key on first use after open.
func (s *PebbleStore) nextSeqLocked(volunteerID string) (uint64, error) {
	if seq, ok := s.nextSq[volunteerID]; ok {
		return seq, nil
	}
	lo, hi := keyBounds(volunteerID)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return 0, fmt.Errorf("noticestore: open iterator: %w", err)
	}
	defer func() { _ = it.Close() }()

	var next uint64
	if it.Last() {
		k := it.Key()
		if len(k) >= 8 {
			next = binary.BigEndian.Uint64(k[len(k)-8:]) + 1
		}
	}
	return next, nil
}

func noticeKey(volunteerID string, seq uint64) []byte {
	id := url.PathEscape(volunteerID)
	k := make([]byte, 0, len(keyPrefix)+len(id)+1+8)
	k = append(k, keyPrefix...)
	k = append(k, id...)
	k = append(k, '/')
	var sq [8]byte
	binary.BigEndian.PutUint64(sq[:], seq)
	return append(k, sq[:]...)
}

func keyBounds(volunteerID string) (lo, hi []byte) {
	lo = append([]byte(keyPrefix), url.PathEscape(volunteerID)...)
	lo = append(lo, '/')
	hi = append(append([]byte{}, lo...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	return lo, hi
}
