// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
)

// TestConcurrentVotesAndPolls verifies that simultaneous joins, votes and
// polls on one room neither lose votes nor break the votes ⊆ participants rule
func TestConcurrentVotesAndPolls(t *testing.T) {
	env := newTestEnv(t)
	roomID := env.createRoom(t, "owner")

	numVoters := 25
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()
			userID := fmt.Sprintf("voter-%02d", voterIdx)

			w := serve(env.rooms.JoinRoom, "POST", "/rooms/"+roomID+"/join", roomID, models.JoinRoomRequest{UserID: userID, UserName: userID})
			if w.Code != http.StatusOK {
				t.Errorf("join %s: status %d", userID, w.Code)
				return
			}

			for round := 0; round < 5; round++ {
				w = serve(env.rounds.SubmitVote, "POST", "/rooms/"+roomID+"/vote", roomID, models.VoteRequest{UserID: userID, Value: room.ReferenceDeck[round]})
				if w.Code != http.StatusOK {
					t.Errorf("vote %s: status %d", userID, w.Code)
					return
				}
				w = serve(env.rooms.GetRoom, "GET", "/rooms/"+roomID+"?userId="+userID, roomID, nil)
				if w.Code != http.StatusOK {
					t.Errorf("read %s: status %d", userID, w.Code)
					return
				}
			}
			successCount.Add(1)
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Fatalf("Expected %d successful voters, got %d", numVoters, successCount.Load())
	}

	r, _ := env.dir.Get(roomID)
	if len(r.Participants) != numVoters+1 {
		t.Errorf("Expected %d participants, got %d", numVoters+1, len(r.Participants))
	}
	if len(r.Votes) != numVoters {
		t.Errorf("Expected %d votes, got %d", numVoters, len(r.Votes))
	}
	for id, v := range r.Votes {
		if _, ok := r.Participants[id]; !ok {
			t.Errorf("Vote from non participant %s", id)
		}
		if v != room.ReferenceDeck[4] {
			t.Errorf("Expected last vote %q for %s, got %q", room.ReferenceDeck[4], id, v)
		}
	}
}

// TestConcurrentRevealAndVotes verifies that every vote either lands before
// the reveal or is rejected with 409, never silently dropped
func TestConcurrentRevealAndVotes(t *testing.T) {
	env := newTestEnv(t)
	roomID := env.createRoom(t, "owner")

	numVoters := 20
	for i := 0; i < numVoters; i++ {
		env.join(t, roomID, fmt.Sprintf("voter-%02d", i))
	}

	var accepted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()
			<-start
			w := serve(env.rounds.SubmitVote, "POST", "/rooms/"+roomID+"/vote", roomID, models.VoteRequest{UserID: fmt.Sprintf("voter-%02d", voterIdx), Value: "3"})
			switch w.Code {
			case http.StatusOK:
				accepted.Add(1)
			case http.StatusConflict:
			default:
				t.Errorf("Unexpected status %d", w.Code)
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		w := serve(env.rounds.Reveal, "POST", "/rooms/"+roomID+"/reveal", roomID, models.OwnerActionRequest{UserID: "owner"})
		if w.Code != http.StatusOK {
			t.Errorf("reveal: status %d", w.Code)
		}
	}()

	close(start)
	wg.Wait()

	r, _ := env.dir.Get(roomID)
	if !r.Revealed {
		t.Error("Expected room revealed")
	}
	if len(r.Votes) != int(accepted.Load()) {
		t.Errorf("Expected %d recorded votes, got %d", accepted.Load(), len(r.Votes))
	}
}

// TestParallelRooms verifies rooms are isolated from each other
func TestParallelRooms(t *testing.T) {
	env := newTestEnv(t)

	numRooms := 10
	roomIDs := make([]string, numRooms)
	for i := range roomIDs {
		roomIDs[i] = env.createRoom(t, fmt.Sprintf("owner-%d", i))
	}

	var wg sync.WaitGroup
	for i, roomID := range roomIDs {
		wg.Add(1)
		go func(idx int, roomID string) {
			defer wg.Done()
			owner := fmt.Sprintf("owner-%d", idx)
			value := fmt.Sprint(idx)

			serve(env.rounds.SubmitVote, "POST", "/rooms/"+roomID+"/vote", roomID, models.VoteRequest{UserID: owner, Value: value})
			serve(env.rounds.Reveal, "POST", "/rooms/"+roomID+"/reveal", roomID, models.OwnerActionRequest{UserID: owner})
		}(i, roomID)
	}
	wg.Wait()

	for i, roomID := range roomIDs {
		snap := env.read(t, roomID, "")
		owner := fmt.Sprintf("owner-%d", i)
		if len(snap.Votes) != 1 || snap.Votes[owner] != fmt.Sprint(i) {
			t.Errorf("Room %s: expected only %s=%d, got %v", roomID, owner, i, snap.Votes)
		}
	}
}
