// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/quickly-poker/auth"
)

// maxCodeAttempts bounds retries when a generated room code is already taken.
const maxCodeAttempts = 16

// Directory owns every room of the process. Operations on one room are
// serialized by that room's lock; the directory lock only guards the index.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*entry

	now     func() time.Time
	newCode func() string
	logger  *slog.Logger
	syncs   singleflight.Group
}

type entry struct {
	mu   sync.Mutex
	room Room
}

// Option configures a Directory.
type Option func(*Directory)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// WithCodeGenerator replaces the room code generator.
func WithCodeGenerator(gen func() string) Option {
	return func(d *Directory) { d.newCode = gen }
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirectory creates an empty directory.
func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		rooms:   make(map[string]*entry),
		now:     time.Now,
		newCode: auth.GenerateRoomCode,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Count returns the number of rooms.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// Create allocates a fresh room code and a room with owner as sole participant.
func (d *Directory) Create(name string, owner Identity) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if err := validateIdentity(owner); err != nil {
		return Snapshot{}, err
	}

	now := d.now()
	e := &entry{room: Room{
		Name:    name,
		OwnerID: owner.ID,
		Participants: map[string]*Participant{
			owner.ID: newParticipant(owner, RoleOwner, now),
		},
		Votes:     map[string]string{},
		CreatedAt: now,
	}}

	id, err := d.insert(e)
	if err != nil {
		return Snapshot{}, err
	}

	d.logger.Info("room created", "room_id", id, "owner_id", owner.ID)

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(&e.room), nil
}

// insert registers e under a fresh code. Codes are generated outside the
// index lock and re-checked under it.
func (d *Directory) insert(e *entry) (string, error) {
	for range maxCodeAttempts {
		code := d.newCode()

		d.mu.Lock()
		if _, taken := d.rooms[code]; !taken {
			e.room.ID = code
			d.rooms[code] = e
			d.mu.Unlock()
			return code, nil
		}
		d.mu.Unlock()

		d.logger.Debug("room code collision", "code", code)
	}
	return "", ErrCodeSpaceExhausted
}

// Get returns a detached copy of the room. It has no side effects.
func (d *Directory) Get(id string) (Room, bool) {
	e := d.lookup(id)
	if e == nil {
		return Room{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.clone(), true
}

// Join adds participant to the room, or refreshes it when the id is known.
// An unknown room is reported before invalid input.
// The role of a known participant is never recomputed.
func (d *Directory) Join(roomID string, who Identity) error {
	now := d.now()
	return d.with(roomID, func(r *Room) error {
		if err := validateIdentity(who); err != nil {
			return err
		}
		if p, ok := r.Participants[who.ID]; ok {
			p.Name = who.Name
			if who.Avatar != "" {
				p.Avatar = who.Avatar
			}
			p.LastSeen = now
			p.Connected = true
			return nil
		}

		role := RoleMember
		if who.ID == r.OwnerID {
			role = RoleOwner
		}
		r.Participants[who.ID] = newParticipant(who, role, now)
		d.logger.Info("participant joined", "room_id", r.ID, "participant_id", who.ID)
		return nil
	})
}

// SubmitVote records value for participantID, replacing any earlier vote of the round.
func (d *Directory) SubmitVote(roomID, participantID, value string) error {
	return d.with(roomID, func(r *Room) error {
		if value == "" {
			return fmt.Errorf("%w: vote value is required", ErrValidation)
		}
		if _, ok := r.Participants[participantID]; !ok {
			return ErrNotAParticipant
		}
		if r.Revealed {
			return ErrRoundClosed
		}
		r.Votes[participantID] = value
		return nil
	})
}

// Reveal exposes the votes of the current round. Repeating it is a no-op.
func (d *Directory) Reveal(roomID, callerID string) error {
	return d.with(roomID, func(r *Room) error {
		if callerID != r.OwnerID {
			return ErrForbidden
		}
		if !r.Revealed {
			r.Revealed = true
			d.logger.Info("votes revealed", "room_id", r.ID, "votes", len(r.Votes))
		}
		return nil
	})
}

// Reset clears the votes and starts a new round.
func (d *Directory) Reset(roomID, callerID string) error {
	return d.with(roomID, func(r *Room) error {
		if callerID != r.OwnerID {
			return ErrForbidden
		}
		r.startRound()
		d.logger.Info("round reset", "room_id", r.ID)
		return nil
	})
}

// SetTicket replaces the ticket and starts a new round. An empty title falls back to the url.
func (d *Directory) SetTicket(roomID, callerID, url, title string) error {
	url = strings.TrimSpace(url)
	if strings.TrimSpace(title) == "" {
		title = url
	}
	return d.with(roomID, func(r *Room) error {
		if callerID != r.OwnerID {
			return ErrForbidden
		}
		if url == "" {
			return fmt.Errorf("%w: ticket url is required", ErrValidation)
		}
		r.Ticket = &Ticket{URL: url, Title: title}
		r.startRound()
		d.logger.Info("ticket set", "room_id", r.ID, "url", url)
		return nil
	})
}

// CheckOwner reports ErrRoomNotFound or ErrForbidden without touching the
// room. Callers use it to gate side effects taken before an owner-only
// operation; the operation itself checks again under the lock.
func (d *Directory) CheckOwner(roomID, callerID string) error {
	return d.with(roomID, func(r *Room) error {
		if callerID != r.OwnerID {
			return ErrForbidden
		}
		return nil
	})
}

// Read heartbeats requesterID, applies the liveness policy and returns the
// redacted snapshot. requesterID may be empty.
func (d *Directory) Read(roomID, requesterID string) (Snapshot, error) {
	now := d.now()
	var s Snapshot
	err := d.with(roomID, func(r *Room) error {
		if requesterID != "" {
			heartbeat(r, requesterID, now)
		}
		for _, p := range ApplyLivenessPolicy(r, now) {
			d.logger.Info("participant removed",
				"room_id", r.ID,
				"participant_id", p.ID,
				"last_seen", humanize.RelTime(p.LastSeen, now, "ago", "from now"),
			)
		}
		s = snapshot(r)
		return nil
	})
	return s, err
}

func (d *Directory) lookup(id string) *entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms[id]
}

// with runs fn on the room under its lock. fn must validate before mutating.
func (d *Directory) with(roomID string, fn func(r *Room) error) error {
	e := d.lookup(roomID)
	if e == nil {
		return ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.room)
}

func validateIdentity(who Identity) error {
	if strings.TrimSpace(who.ID) == "" {
		return fmt.Errorf("%w: participant id is required", ErrValidation)
	}
	if strings.TrimSpace(who.Name) == "" {
		return fmt.Errorf("%w: participant name is required", ErrValidation)
	}
	if utf8.RuneCountInString(who.Name) > MaxNameLength {
		return fmt.Errorf("%w: participant name is longer than %d characters", ErrValidation, MaxNameLength)
	}
	return nil
}

func newParticipant(who Identity, role Role, now time.Time) *Participant {
	authType := who.AuthType
	if authType == "" {
		authType = AuthGuest
	}
	return &Participant{
		ID:        who.ID,
		Name:      who.Name,
		Avatar:    who.Avatar,
		AuthType:  authType,
		Role:      role,
		JoinedAt:  now,
		LastSeen:  now,
		Connected: true,
	}
}
