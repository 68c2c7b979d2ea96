package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bilingo/internal/services"
)

func TestCloudSynthesize(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text:synthesize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" && r.Header.Get("X-Goog-Api-Key") != "secret" {
			t.Errorf("missing api key: %s", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("ID3cloud")),
		})
	}))
	defer server.Close()

	cloud, err := NewCloud(context.Background(), CloudConfig{APIKey: "secret", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewCloud: %v", err)
	}
	audio, err := cloud.Synthesize(context.Background(), Request{
		Text:         "Bonjour",
		LanguageCode: "fr-FR",
		Voice:        "fr-FR-Wavenet-A",
		Rate:         1.25,
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "ID3cloud" {
		t.Fatalf("audio = %q", audio)
	}
	voice, _ := got["voice"].(map[string]any)
	if voice["languageCode"] != "fr-FR" || voice["name"] != "fr-FR-Wavenet-A" {
		t.Fatalf("unexpected voice params %v", got["voice"])
	}
	cfg, _ := got["audioConfig"].(map[string]any)
	if cfg["audioEncoding"] != "MP3" || cfg["speakingRate"] != 1.25 {
		t.Fatalf("unexpected audio config %v", got["audioConfig"])
	}
	if cloud.Name() != "secondary" {
		t.Fatalf("Name = %q", cloud.Name())
	}
}

func TestCloudSynthesizeFailureIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	}))
	defer server.Close()

	cloud, err := NewCloud(context.Background(), CloudConfig{APIKey: "bad", Endpoint: server.URL + "/"})
	if err != nil {
		t.Fatalf("NewCloud: %v", err)
	}
	_, err = cloud.Synthesize(context.Background(), Request{Text: "Hi", LanguageCode: "en"})
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCloudVoicesRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voices" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"voices":[
			{"name":"en-US-Wavenet-D","languageCodes":["en-US"],"ssmlGender":"MALE"},
			{"name":"fr-FR-Wavenet-A","languageCodes":["fr-FR"],"ssmlGender":"FEMALE"}
		]}`))
	}))
	defer server.Close()

	cloud, err := NewCloud(context.Background(), CloudConfig{APIKey: "k", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewCloud: %v", err)
	}
	cloud.retryBaseDelay = time.Millisecond
	cloud.retryMaxDelay = time.Millisecond

	voices, err := cloud.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a retry, got %d calls", calls.Load())
	}
	if len(voices) != 2 || voices[1].Name != "fr-FR-Wavenet-A" || voices[1].Gender != "FEMALE" || voices[0].LanguageCodes[0] != "en-US" {
		t.Fatalf("unexpected voices %+v", voices)
	}
}

func TestCloudVoicesClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"nope"}}`))
	}))
	defer server.Close()

	cloud, err := NewCloud(context.Background(), CloudConfig{APIKey: "k", Endpoint: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	cloud.retryBaseDelay = time.Millisecond
	if _, err := cloud.Voices(context.Background()); !errors.Is(err, services.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
}

func TestNewCloudRequiresKey(t *testing.T) {
	if _, err := NewCloud(context.Background(), CloudConfig{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
