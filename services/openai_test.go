package services

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestFlattenChatContent(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain string", `"Mi argumento completo."`, "Mi argumento completo.", false},
		{"fragment array", `[{"type":"text","text":"Primera parte. "},{"type":"text","text":"Segunda parte."}]`, "Primera parte. Segunda parte.", false},
		{"single fragment", `[{"type":"text","text":"Único fragmento."}]`, "Único fragmento.", false},
		{"empty raw", "", "", false},
		{"null content", `null`, "", false},
		{"object shape", `{"foo":1}`, "", true},
		{"number shape", `42`, "", true},
	}
	for _, tc := range cases {
		got, err := flattenChatContent(json.RawMessage(tc.raw))
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error, got %q", tc.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: flattenChatContent = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyHTTPFailure(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"404 is model level", http.StatusNotFound, `{"error":{"message":"The model does not exist"}}`, ErrorModelNotFound},
		{"429 is rate limited", http.StatusTooManyRequests, "", ErrorRateLimited},
		{"401 is auth", http.StatusUnauthorized, "", ErrorAuthInvalid},
		{"403 is auth", http.StatusForbidden, "", ErrorAuthInvalid},
		{"502 is unavailable", http.StatusBadGateway, "", ErrorServiceUnavailable},
		{"503 is unavailable", http.StatusServiceUnavailable, "", ErrorServiceUnavailable},
		{"504 is unavailable", http.StatusGatewayTimeout, "", ErrorServiceUnavailable},
		// The status code wins over whatever the body says.
		{"status beats body keywords", http.StatusNotFound, `{"error":{"message":"quota exceeded"}}`, ErrorModelNotFound},
		// Unmapped statuses fall back to body keywords.
		{"400 with model message", http.StatusBadRequest, "unknown model requested", ErrorModelNotFound},
		{"400 with quota message", http.StatusBadRequest, "quota exceeded for this key", ErrorRateLimited},
		{"400 with nothing useful", http.StatusBadRequest, "bad request", ErrorUnknown},
	}
	for _, tc := range cases {
		if got := classifyHTTPFailure(tc.status, tc.body); got != tc.want {
			t.Errorf("%s: classifyHTTPFailure(%d, %q) = %v, want %v", tc.name, tc.status, tc.body, got, tc.want)
		}
	}
}
