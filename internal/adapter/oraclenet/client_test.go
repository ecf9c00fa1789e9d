package oraclenet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"lendpool-backend/internal/usecase/oracle"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleRequest() oracle.SubmitRequest {
	return oracle.SubmitRequest{
		Source:         "const score = await fetchScore(wallet); return score;",
		SubscriptionID: 44,
		GasLimit:       300_000,
		Wallet:         "0x" + strings.Repeat("a", 40),
		LoanID:         7,
	}
}

func TestSubmit_SendsPayloadAndToken(t *testing.T) {
	var gotAuth string
	var gotBody oracle.SubmitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/requests" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"request_id": "0xreq42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "net-secret", quietLogger())
	id, err := c.Submit(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "0xreq42" {
		t.Fatalf("request id = %q", id)
	}
	if gotAuth != "Bearer net-secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody.SubscriptionID != 44 || gotBody.GasLimit != 300_000 || gotBody.LoanID != 7 {
		t.Fatalf("payload mismatch: %+v", gotBody)
	}
}

func TestSubmit_NoTokenOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"request_id": "0xreq1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", quietLogger())
	if _, err := c.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmit_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "subscription exhausted", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "net-secret", quietLogger())
	_, err := c.Submit(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("expected error on 402")
	}
	if !strings.Contains(err.Error(), "402") {
		t.Fatalf("error should carry status: %v", err)
	}
}

func TestSubmit_EmptyRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"request_id": ""})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "net-secret", quietLogger())
	if _, err := c.Submit(context.Background(), sampleRequest()); err == nil {
		t.Fatal("expected error on empty request id")
	}
}

func TestSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "net-secret", quietLogger())
	if _, err := c.Submit(context.Background(), sampleRequest()); err == nil {
		t.Fatal("expected error when network is down")
	}
}
