package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"docroute/internal/auth"
	authhandler "docroute/internal/auth/handler"
	dirservice "docroute/internal/directory/service"
	dirstore "docroute/internal/directory/store"
	formstore "docroute/internal/forms/store"
	linkservice "docroute/internal/links/service"
	linkstore "docroute/internal/links/store"
	"docroute/internal/platform/middleware"
	"docroute/internal/policy"
	"docroute/internal/storage"
	"docroute/internal/transfer/adapters"
	"docroute/internal/transfer/models"
	"docroute/internal/transfer/service"
	"docroute/internal/transfer/store"
)

// newTestRouter wires the full authenticated API against in-memory storage,
// seeded with the sample directory.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	port := storage.NewMemory()

	userStore := dirstore.NewUserStore(port)
	recipientStore := dirstore.NewRecipientStore(port)
	formStore := formstore.NewFormStore(port)

	directory, err := dirservice.New(recipientStore, userStore)
	if err != nil {
		t.Fatal(err)
	}
	if err := directory.Seed(t.Context()); err != nil {
		t.Fatal(err)
	}

	links, err := linkservice.New(linkstore.NewLinkStore(port), formStore)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := service.New(store.NewTransferStore(port), adapters.NewUserDirectoryAdapter(userStore))
	if err != nil {
		t.Fatal(err)
	}
	resolver, err := policy.NewResolver(engine, links, userStore)
	if err != nil {
		t.Fatal(err)
	}

	tokens := auth.NewTokenService("test-signing-key", time.Hour)
	login, err := auth.New(userStore, tokens)
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	authhandler.New(login).Register(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(auth.NewValidator(tokens), log))
		New(engine, resolver, userStore).Register(r)
	})
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router chi.Router, username, password string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s: expected 200, got %d (%s)", username, rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	return resp.Token
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/transfers/pending", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestSendReceiveAcceptFlow(t *testing.T) {
	router := newTestRouter(t)

	secretaryToken := login(t, router, "secretary", "password")
	financeToken := login(t, router, "finance", "password")

	// Secretary sends to the Finance division.
	rec := doJSON(t, router, http.MethodPost, "/transfers", secretaryToken, map[string]any{
		"recipientId":   "finance-recipient",
		"recipientName": "Finance",
		"formId":        "f1",
		"formData":      map[string]string{"q-1": "Quarterly report"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating transfer, got %d (%s)", rec.Code, rec.Body)
	}
	var created models.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.SentBy != "Secretary" {
		t.Fatalf("expected sender division Secretary, got %q", created.SentBy)
	}

	// The Finance user finds it in their pending inbox via the division name.
	rec = doJSON(t, router, http.MethodGet, "/transfers/pending", financeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing inbox, got %d", rec.Code)
	}
	var inbox []models.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&inbox); err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 1 || inbox[0].ID != created.ID {
		t.Fatalf("expected the sent transfer in the inbox, got %+v", inbox)
	}

	// Accept it; the inbox drains.
	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/accept", financeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 accepting, got %d (%s)", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodGet, "/transfers/pending", financeToken, nil)
	if err := json.NewDecoder(rec.Body).Decode(&inbox); err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 0 {
		t.Fatalf("expected an empty inbox after accept, got %d", len(inbox))
	}

	// Cancelling an accepted transfer is refused.
	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/cancel", secretaryToken, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 cancelling an accepted transfer, got %d", rec.Code)
	}
}

func TestAdminCannotSend(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, "admin", "admin")

	rec := doJSON(t, router, http.MethodPost, "/transfers", adminToken, map[string]any{
		"recipientId": "finance-recipient",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an admin send, got %d", rec.Code)
	}
}

func TestLifecycleRoleGates(t *testing.T) {
	router := newTestRouter(t)

	secretaryToken := login(t, router, "secretary", "password")
	adminToken := login(t, router, "admin", "admin")
	dgToken := login(t, router, "dg", "password")
	financeToken := login(t, router, "finance", "password")

	rec := doJSON(t, router, http.MethodPost, "/transfers", secretaryToken, map[string]any{
		"recipientId":   "finance-recipient",
		"recipientName": "Finance",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating transfer, got %d (%s)", rec.Code, rec.Body)
	}
	var created models.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	// Admins neither receive nor cancel.
	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/accept", adminToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an admin accept, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/cancel", adminToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an admin cancel, got %d", rec.Code)
	}

	// A user from another division cannot accept on Finance's behalf.
	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/accept", dgToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a cross-division accept, got %d", rec.Code)
	}

	// The addressed division still can.
	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/accept", financeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the addressed accept, got %d (%s)", rec.Code, rec.Body)
	}
	var accepted models.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
		t.Fatal(err)
	}
	if accepted.Status != models.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
}

func TestSecretaryAcceptsAcrossDivisions(t *testing.T) {
	router := newTestRouter(t)

	secretaryToken := login(t, router, "secretary", "password")
	dgToken := login(t, router, "dg", "password")

	rec := doJSON(t, router, http.MethodPost, "/transfers", dgToken, map[string]any{
		"recipientId":   "finance-recipient",
		"recipientName": "Finance",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating transfer, got %d (%s)", rec.Code, rec.Body)
	}
	var created models.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, router, http.MethodPost, "/transfers/"+created.ID+"/accept", secretaryToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a secretary accept, got %d (%s)", rec.Code, rec.Body)
	}
}

func TestRecordsViewRoleGate(t *testing.T) {
	router := newTestRouter(t)
	financeToken := login(t, router, "finance", "password")

	rec := doJSON(t, router, http.MethodGet, "/transfers/views?axis=division&selection=r1", financeToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a user-role records view, got %d", rec.Code)
	}
}

func TestRecordsView(t *testing.T) {
	router := newTestRouter(t)
	secretaryToken := login(t, router, "secretary", "password")

	rec := doJSON(t, router, http.MethodPost, "/transfers", secretaryToken, map[string]any{
		"recipientId":   "r1",
		"recipientName": "Finance",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/transfers/views?axis=division&selection=r1", secretaryToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the division view, got %d (%s)", rec.Code, rec.Body)
	}
	var view struct {
		Transfers []models.Transfer `json:"transfers"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if len(view.Transfers) != 1 {
		t.Fatalf("expected one transfer in the view, got %d", len(view.Transfers))
	}

	// Unknown axis maps to a bad request.
	rec = doJSON(t, router, http.MethodGet, "/transfers/views?axis=weekly&selection=r1", secretaryToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown axis, got %d", rec.Code)
	}
}
