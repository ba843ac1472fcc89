// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poker/models"
	"github.com/danielhkuo/quickly-poker/testutil"
)

func TestCreateGuest(t *testing.T) {
	handler := NewGuestHandler()

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		wantAuthType   string
	}{
		{"guest", models.CreateGuestRequest{Name: "Ada"}, http.StatusCreated, "guest"},
		{"google", models.CreateGuestRequest{Name: "Ada", Avatar: "https://img/a.png", AuthType: "google"}, http.StatusCreated, "google"},
		{"missing name", models.CreateGuestRequest{}, http.StatusBadRequest, ""},
		{"blank name", models.CreateGuestRequest{Name: "   "}, http.StatusBadRequest, ""},
		{"name too long", models.CreateGuestRequest{Name: strings.Repeat("x", 65)}, http.StatusBadRequest, ""},
		{"unknown auth type", models.CreateGuestRequest{Name: "Ada", AuthType: "github"}, http.StatusBadRequest, ""},
		{"invalid JSON", "nope", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.CreateGuest, "POST", "/guests", "", tt.requestBody)
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var guest models.GuestIdentity
			testutil.AssertJSON(t, w, &guest)
			if _, err := uuid.Parse(guest.ID); err != nil {
				t.Errorf("Expected a uuid id, got %q", guest.ID)
			}
			if guest.Name != "Ada" || guest.AuthType != tt.wantAuthType {
				t.Errorf("Unexpected guest: %+v", guest)
			}
		})
	}
}

func TestCreateGuest_UniqueIDs(t *testing.T) {
	handler := NewGuestHandler()
	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		w := serve(handler.CreateGuest, "POST", "/guests", "", models.CreateGuestRequest{Name: "Ada"})
		testutil.AssertStatus(t, w, http.StatusCreated)

		var guest models.GuestIdentity
		testutil.AssertJSON(t, w, &guest)
		if seen[guest.ID] {
			t.Fatalf("Duplicate guest id %s", guest.ID)
		}
		seen[guest.ID] = true
	}
}
