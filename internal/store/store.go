// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package store persists fetched dataset snapshots and generated reports in
// a Badger database. Values are zstd-compressed JSON.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/report"
)

// ErrNotFound is returned when a snapshot or report does not exist.
var ErrNotFound = errors.New("not found")

// Key prefixes.
const (
	snapPrefix       = "snap/"
	reportMetaPrefix = "report/meta/"
	reportDataPrefix = "report/data/"
)

// Options configures Open.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// CompressionLevel is the zstd level, 1 (fastest) to 4 (best).
	CompressionLevel int
	InMemory         bool
}

// Store is a Badger-backed snapshot and report store. It is safe for
// concurrent use.
type Store struct {
	db    *badger.DB
	codec *codec
}

// Open opens (creating if needed) the store described by opts.
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c, err := newCodec(opts.CompressionLevel)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Debug("store opened", "path", opts.Path, "in_memory", opts.InMemory)
	return &Store{db: db, codec: c}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.codec.close()
	return s.db.Close()
}

// Snapshot is the last dataset fetched for one source.
type Snapshot struct {
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
	Data      *record.Dataset `json:"data"`
}

// SaveSnapshot stores snap under name, replacing any earlier snapshot.
func (s *Store) SaveSnapshot(name string, snap Snapshot) error {
	val, err := s.codec.encode(snap)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", name, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapPrefix+name), val)
	})
}

// LoadSnapshot returns the snapshot stored under name, or ErrNotFound.
func (s *Store) LoadSnapshot(name string) (*Snapshot, error) {
	var snap Snapshot
	if err := s.get(snapPrefix+name, &snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	if snap.Data == nil {
		snap.Data = record.Empty()
	}
	return &snap, nil
}

// ReportMeta describes a stored report without its content.
type ReportMeta struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Period      report.Period `json:"period"`
	GeneratedAt time.Time     `json:"generated_at"`
	Sections    []string      `json:"sections"`
}

func metaOf(r *report.Report) ReportMeta {
	m := ReportMeta{ID: r.ID, Title: r.Title, Period: r.Period, GeneratedAt: r.GeneratedAt}
	for _, sec := range r.Sections {
		if sec.Status == report.StatusOK {
			m.Sections = append(m.Sections, sec.Name)
		}
	}
	return m
}

// SaveReport stores r, keyed by its ID.
func (s *Store) SaveReport(r *report.Report) error {
	if r.ID == "" {
		return errors.New("report has no id")
	}
	meta, err := s.codec.encode(metaOf(r))
	if err != nil {
		return fmt.Errorf("report %s: %w", r.ID, err)
	}
	data, err := s.codec.encode(r)
	if err != nil {
		return fmt.Errorf("report %s: %w", r.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(reportMetaPrefix+r.ID), meta); err != nil {
			return err
		}
		return txn.Set([]byte(reportDataPrefix+r.ID), data)
	})
}

// GetReport returns the report with the given id, or ErrNotFound.
func (s *Store) GetReport(id string) (*report.Report, error) {
	var r report.Report
	if err := s.get(reportDataPrefix+id, &r); err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return &r, nil
}

// ListReports returns the metadata of every stored report, newest first.
func (s *Store) ListReports() ([]ReportMeta, error) {
	var out []ReportMeta
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportMetaPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var m ReportMeta
				if err := s.codec.decode(val, &m); err != nil {
					return fmt.Errorf("%s: %w", strings.TrimPrefix(string(item.Key()), reportMetaPrefix), err)
				}
				out = append(out, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	slices.SortStableFunc(out, func(a, b ReportMeta) int {
		return b.GeneratedAt.Compare(a.GeneratedAt)
	})
	return out, nil
}

// DeleteReport removes the report with the given id, or returns ErrNotFound.
func (s *Store) DeleteReport(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(reportMetaPrefix + id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("report %s: %w", id, ErrNotFound)
			}
			return err
		}
		if err := txn.Delete([]byte(reportMetaPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(reportDataPrefix + id))
	})
}

// get decodes the value at key into v.
func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return s.codec.decode(val, v)
		})
	})
}
