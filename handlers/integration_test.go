// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
	"github.com/danielhkuo/quickly-poker/testutil"
)

// TestFullEstimationWorkflow tests the complete end-to-end workflow:
// 1. Issue guest identities
// 2. Create room and join
// 3. Set ticket
// 4. Vote (masked), reveal, read consensus
// 5. Sync estimate to tracker
// 6. Reset and vote again
// 7. A silent participant is pruned
func TestFullEstimationWorkflow(t *testing.T) {
	env := newTestEnv(t)
	guests := NewGuestHandler()

	// Step 1: guest identities
	var alice, bob models.GuestIdentity
	for _, g := range []*models.GuestIdentity{&alice, &bob} {
		w := serve(guests.CreateGuest, "POST", "/guests", "", models.CreateGuestRequest{Name: "Guest"})
		testutil.AssertStatus(t, w, http.StatusCreated)
		testutil.AssertJSON(t, w, g)
	}

	// Step 2: create and join
	w := serve(env.rooms.CreateRoom, "POST", "/rooms", "", models.CreateRoomRequest{RoomName: "Sprint 42", UserID: alice.ID, UserName: "Alice"})
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.CreateRoomResponse
	testutil.AssertJSON(t, w, &created)
	roomID := created.RoomID

	w = serve(env.rooms.JoinRoom, "POST", "/rooms/"+roomID+"/join", roomID, models.JoinRoomRequest{UserID: bob.ID, UserName: "Bob"})
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 3: ticket
	w = serve(env.rounds.SetTicket, "POST", "/rooms/"+roomID+"/ticket", roomID, models.SetTicketRequest{UserID: alice.ID, URL: "https://acme.atlassian.net/browse/PROJ-42"})
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 4: vote, reveal
	env.vote(t, roomID, alice.ID, "5")
	env.vote(t, roomID, bob.ID, "5")

	snap := env.read(t, roomID, bob.ID)
	if snap.Votes[alice.ID] != room.MaskToken || snap.Votes[bob.ID] != room.MaskToken {
		t.Fatalf("Expected masked votes, got %v", snap.Votes)
	}

	w = serve(env.rounds.Reveal, "POST", "/rooms/"+roomID+"/reveal", roomID, models.OwnerActionRequest{UserID: bob.ID})
	testutil.AssertStatus(t, w, http.StatusForbidden)
	w = serve(env.rounds.Reveal, "POST", "/rooms/"+roomID+"/reveal", roomID, models.OwnerActionRequest{UserID: alice.ID})
	testutil.AssertStatus(t, w, http.StatusOK)

	snap = env.read(t, roomID, bob.ID)
	if snap.Votes[alice.ID] != "5" || snap.Votes[bob.ID] != "5" {
		t.Fatalf("Expected revealed votes, got %v", snap.Votes)
	}
	if snap.Summary == nil || !snap.Summary.Consensus || snap.Summary.Average == nil || *snap.Summary.Average != 5 {
		t.Fatalf("Expected consensus on 5, got %+v", snap.Summary)
	}

	// Step 5: sync
	w = serve(env.syncs.SyncEstimate, "POST", "/rooms/"+roomID+"/sync", roomID, models.SyncRequest{UserID: alice.ID})
	testutil.AssertStatus(t, w, http.StatusOK)

	w = serve(env.syncs.ListSyncs, "GET", "/rooms/"+roomID+"/syncs", roomID, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var history models.SyncHistoryResponse
	testutil.AssertJSON(t, w, &history)
	if len(history.Syncs) != 1 || history.Syncs[0].IssueKey != "PROJ-42" {
		t.Fatalf("Expected one PROJ-42 sync, got %+v", history.Syncs)
	}

	// Step 6: reset and vote again
	w = serve(env.rounds.Reset, "POST", "/rooms/"+roomID+"/reset", roomID, models.OwnerActionRequest{UserID: alice.ID})
	testutil.AssertStatus(t, w, http.StatusOK)
	env.vote(t, roomID, bob.ID, "8")

	// Step 7: Bob goes silent, Alice keeps polling
	for elapsed := time.Duration(0); elapsed <= room.RemoveThreshold; elapsed += 10 * time.Second {
		env.clock.Advance(10 * time.Second)
		env.read(t, roomID, alice.ID)
	}
	snap = env.read(t, roomID, alice.ID)
	if len(snap.Participants) != 1 || snap.Participants[0].ID != alice.ID {
		t.Errorf("Expected only Alice left, got %+v", snap.Participants)
	}
	if len(snap.Votes) != 0 {
		t.Errorf("Expected Bob's vote gone, got %v", snap.Votes)
	}
}

// TestResultsSealedUntilRevealed checks that the summary only appears after reveal
func TestResultsSealedUntilRevealed(t *testing.T) {
	env := newTestEnv(t)
	roomID := env.createRoom(t, "u1")
	env.join(t, roomID, "u2")
	env.vote(t, roomID, "u1", "3")
	env.vote(t, roomID, "u2", "?")

	snap := env.read(t, roomID, "u1")
	if snap.Summary != nil {
		t.Error("Expected no summary before reveal")
	}

	w := serve(env.rounds.Reveal, "POST", "/rooms/"+roomID+"/reveal", roomID, models.OwnerActionRequest{UserID: "u1"})
	testutil.AssertStatus(t, w, http.StatusOK)

	snap = env.read(t, roomID, "u1")
	if snap.Summary == nil || snap.Summary.Consensus || snap.Summary.VoteCount != 2 {
		t.Fatalf("Unexpected summary: %+v", snap.Summary)
	}
	// revealed "?" looks like the mask; the revealed flag tells them apart
	if snap.Votes["u2"] != room.MaskToken || !snap.Revealed {
		t.Errorf("Expected revealed '?' vote, got %q revealed=%v", snap.Votes["u2"], snap.Revealed)
	}
}
