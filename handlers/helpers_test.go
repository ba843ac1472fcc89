// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/room"
	"github.com/danielhkuo/quickly-poker/testutil"
	"github.com/danielhkuo/quickly-poker/tracker"
)

// testEnv bundles the handlers over one directory, clock, tracker and journal
type testEnv struct {
	dir     *room.Directory
	clock   *testutil.Clock
	tracker *testutil.FakeTracker
	journal *db.SyncLog

	rooms  *RoomHandler
	rounds *RoundHandler
	syncs  *SyncHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := testutil.NewClock(testutil.Epoch)
	dir := testutil.NewTestDirectory(t, clock)
	fake := &testutil.FakeTracker{Configured: true, Issues: map[string]tracker.Issue{}}
	conn := testutil.SetupTestDB(t)
	journal := db.NewSyncLog(conn, db.DriverSQLite)
	cfg := testutil.GetTestConfig()

	return &testEnv{
		dir:     dir,
		clock:   clock,
		tracker: fake,
		journal: journal,
		rooms:   NewRoomHandler(dir),
		rounds:  NewRoundHandler(dir, fake),
		syncs:   NewSyncHandler(dir, fake, journal, cfg),
	}
}

// serve calls h with the {id} path value set
func serve(h http.HandlerFunc, method, path, id string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	if id != "" {
		req.SetPathValue("id", id)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// createRoom creates a room owned by ownerID through the handler
func (e *testEnv) createRoom(t *testing.T, ownerID string) string {
	t.Helper()
	w := serve(e.rooms.CreateRoom, "POST", "/rooms", "", models.CreateRoomRequest{
		RoomName: "Sprint 42",
		UserID:   ownerID,
		UserName: "Owner " + ownerID,
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.RoomID
}

func (e *testEnv) join(t *testing.T, roomID, userID string) {
	t.Helper()
	w := serve(e.rooms.JoinRoom, "POST", "/rooms/"+roomID+"/join", roomID, models.JoinRoomRequest{
		UserID:   userID,
		UserName: "User " + userID,
	})
	testutil.AssertStatus(t, w, http.StatusOK)
}

func (e *testEnv) vote(t *testing.T, roomID, userID, value string) {
	t.Helper()
	w := serve(e.rounds.SubmitVote, "POST", "/rooms/"+roomID+"/vote", roomID, models.VoteRequest{UserID: userID, Value: value})
	testutil.AssertStatus(t, w, http.StatusOK)
}

func (e *testEnv) read(t *testing.T, roomID, userID string) models.RoomSnapshot {
	t.Helper()
	w := serve(e.rooms.GetRoom, "GET", "/rooms/"+roomID+"?userId="+userID, roomID, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var snap models.RoomSnapshot
	testutil.AssertJSON(t, w, &snap)
	return snap
}
