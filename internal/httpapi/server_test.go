package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/guard"
	"github.com/oakline/gatehouse/internal/httpapi"
	"github.com/oakline/gatehouse/internal/snapshot"
	"github.com/oakline/gatehouse/internal/sqlite"
)

type testEnv struct {
	server  *httptest.Server
	store   *sqlite.SignInStore
	preauth *sqlite.PreAuthStore
	snap    *snapshot.Store
	profile *guard.Holder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewSignInStore(db, nil)
	preauthStore := sqlite.NewPreAuthStore(db)
	snap := snapshot.NewStore(snapshot.DefaultLimit)
	profile := guard.NewHolder(guard.Profile{Name: "Jordan"})
	service := signin.NewService(store, snap, nil)

	srv := httpapi.NewServer(service, snap, store, preauthStore, profile, 2*time.Millisecond, 6, nil)
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, store: store, preauth: preauthStore, snap: snap, profile: profile}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func (e *testEnv) createSignIn(t *testing.T, name string) string {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "/api/sign-ins", map[string]any{
		"name":             name,
		"company":          "Fox Plumbing",
		"purpose_of_visit": "Regular Maintenance",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	require.NotEmpty(t, entry.ID)
	return entry.ID
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	resp, data := env.do(t, http.MethodGet, "/api/sign-ins", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Total   int `json:"total"`
		Matched int `json:"matched"`
		Groups  []struct {
			Label   string `json:"label"`
			Entries []struct {
				ID      string `json:"id"`
				Status  string `json:"status"`
				Elapsed string `json:"elapsed"`
			} `json:"entries"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	require.Equal(t, 1, list.Total)
	require.Equal(t, 1, list.Matched)
	require.Len(t, list.Groups, 1)
	require.Equal(t, "Today", list.Groups[0].Label)
	require.Equal(t, id, list.Groups[0].Entries[0].ID)
	require.Equal(t, "pending", list.Groups[0].Entries[0].Status)
	require.NotEmpty(t, list.Groups[0].Entries[0].Elapsed)
}

func TestApproveFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	resp, data := env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/approve", map[string]any{
		"notes": "ID checked",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry struct {
		Status         string `json:"status"`
		ApprovalStatus string `json:"approval_status"`
		ApprovedBy     string `json:"approved_by_name"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	require.Equal(t, "active", entry.Status)
	require.Equal(t, "approved", entry.ApprovalStatus)
	require.Equal(t, "Jordan", entry.ApprovedBy)

	// Approving twice conflicts.
	resp, _ = env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/approve", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeclineRequiresNotes(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	resp, _ := env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/decline", map[string]any{"notes": "  "})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, data := env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/decline", map[string]any{
		"notes": "no work order",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	require.Equal(t, "declined", entry.Status)
}

func TestSignOutFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	// Cannot sign out while still pending.
	resp, _ := env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/sign-out", map[string]any{
		"work_status": "work_completed",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/approve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/sign-out", map[string]any{
		"work_status": "work_completed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry struct {
		Status      string `json:"status"`
		IsSignedOut bool   `json:"is_signed_out"`
		SignedOutBy string `json:"signed_out_by_name"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	require.Equal(t, "signed_out", entry.Status)
	require.True(t, entry.IsSignedOut)
	require.Equal(t, "Jordan", entry.SignedOutBy)
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	resp, data := env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/comments", map[string]any{
		"text": "left ladder by dock",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry struct {
		GeneralComments []struct {
			ID          string `json:"id"`
			Text        string `json:"text"`
			AuthorName  string `json:"author_name"`
			IsImportant bool   `json:"is_important"`
		} `json:"general_comments"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	require.Len(t, entry.GeneralComments, 1)
	commentID := entry.GeneralComments[0].ID
	require.Equal(t, "Jordan", entry.GeneralComments[0].AuthorName)
	require.False(t, entry.GeneralComments[0].IsImportant)

	path := fmt.Sprintf("/api/sign-ins/%s/comments/%s/toggle-important", id, commentID)
	resp, data = env.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &entry))
	require.True(t, entry.GeneralComments[0].IsImportant)

	// Toggling an unknown comment is a 404.
	resp, _ = env.do(t, http.MethodPost, "/api/sign-ins/"+id+"/comments/ghost/toggle-important", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownSignIn(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/sign-ins/ghost/approve", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuardHeaderOverridesProfile(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/sign-ins/"+id+"/approve", bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("X-Guard-Name", "Sam")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry struct {
		ApprovedBy string `json:"approved_by_name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	require.Equal(t, "Sam", entry.ApprovedBy)
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.preauth.Insert(ctx, &preauth.Contractor{
		ID: "c1", CreatedAt: time.Now(), Name: "Dana Fox", Company: "Fox Plumbing", IsActive: true,
	}))
	require.NoError(t, env.preauth.Insert(ctx, &preauth.Contractor{
		ID: "c2", CreatedAt: time.Now(), Name: "Marcus Webb", Company: "Webb Electrical", IsActive: true,
	}))

	resp, data := env.do(t, http.MethodGet, "/api/suggestions?q=fox", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var matches []preauth.Contractor
	require.NoError(t, json.Unmarshal(data, &matches))
	require.Len(t, matches, 1)
	require.Equal(t, "c1", matches[0].ID)

	// Below the two-character threshold nothing is queried.
	resp, data = env.do(t, http.MethodGet, "/api/suggestions?q=f", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &matches))
	require.Empty(t, matches)
}

func TestCreateContractor(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.do(t, http.MethodPost, "/api/contractors", map[string]any{
		"name":    "Dana Fox",
		"company": "Fox Plumbing",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c preauth.Contractor
	require.NoError(t, json.Unmarshal(data, &c))
	require.NotEmpty(t, c.ID)
	require.True(t, c.IsActive)

	// The new profile surfaces as a suggestion.
	resp, data = env.do(t, http.MethodGet, "/api/suggestions?q=fox", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var matches []preauth.Contractor
	require.NoError(t, json.Unmarshal(data, &matches))
	require.Len(t, matches, 1)
	require.Equal(t, c.ID, matches[0].ID)

	// Name and company are required.
	resp, _ = env.do(t, http.MethodPost, "/api/contractors", map[string]any{"name": "  "})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteSignIn(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSignIn(t, "Dana Fox")

	resp, _ := env.do(t, http.MethodDelete, "/api/sign-ins/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data := env.do(t, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Empty(t, rows)

	resp, _ = env.do(t, http.MethodDelete, "/api/sign-ins/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	env.createSignIn(t, "Dana Fox")
	env.createSignIn(t, "Marcus Webb")

	resp, data := env.do(t, http.MethodGet, "/api/history?name=webb", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "Marcus Webb", rows[0].Name)

	resp, _ = env.do(t, http.MethodGet, "/api/history?limit=bogus", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGuardProfile(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.do(t, http.MethodGet, "/api/guard-profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p guard.Profile
	require.NoError(t, json.Unmarshal(data, &p))
	require.Equal(t, "Jordan", p.Name)
	require.False(t, p.AutoApprove)

	resp, data = env.do(t, http.MethodPut, "/api/guard-profile", guard.Profile{Name: "Sam", AutoApprove: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &p))
	require.Equal(t, "Sam", p.Name)
	require.True(t, p.AutoApprove)

	// Auto-approve now applies to new sign-ins.
	resp, data = env.do(t, http.MethodPost, "/api/sign-ins", map[string]any{
		"name":             "Dana Fox",
		"company":          "Fox Plumbing",
		"purpose_of_visit": "Delivery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var entry struct {
		ApprovalStatus string `json:"approval_status"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	require.Equal(t, "approved", entry.ApprovalStatus)
}

func TestListFilterParams(t *testing.T) {
	env := newTestEnv(t)
	env.createSignIn(t, "Dana Fox")

	resp, _ := env.do(t, http.MethodGet, "/api/sign-ins?range=bogus", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, data := env.do(t, http.MethodGet, "/api/sign-ins?q=dana&range=all&status=active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Matched int `json:"matched"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	require.Equal(t, 1, list.Matched)
}
