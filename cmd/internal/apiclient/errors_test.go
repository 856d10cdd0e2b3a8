package apiclient

import "testing"

func TestNormalizeError_Priority(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantField string
	}{
		{
			name:      "per-field error wins",
			status:    400,
			body:      `{"email": ["already exists"]}`,
			wantMsg:   "already exists",
			wantField: "email",
		},
		{
			name:      "field errors nested under details",
			status:    400,
			body:      `{"error": "Registration failed", "details": {"username": ["A user with this username already exists."]}}`,
			wantMsg:   "A user with this username already exists.",
			wantField: "username",
		},
		{
			name:    "non-field errors before detail",
			status:  400,
			body:    `{"detail": "ignored", "non_field_errors": ["Invalid credentials."]}`,
			wantMsg: "Invalid credentials.",
		},
		{
			name:    "non-field errors nested under details",
			status:  400,
			body:    `{"error": "Login failed", "details": {"non_field_errors": ["User account is disabled."]}}`,
			wantMsg: "User account is disabled.",
		},
		{
			name:    "detail field",
			status:  401,
			body:    `{"detail": "No active account found with the given credentials"}`,
			wantMsg: "No active account found with the given credentials",
		},
		{
			name:    "message field",
			status:  400,
			body:    `{"message": "Something specific"}`,
			wantMsg: "Something specific",
		},
		{
			name:    "error field",
			status:  500,
			body:    `{"error": "An unexpected error occurred during login"}`,
			wantMsg: "An unexpected error occurred during login",
		},
		{
			name:    "unparseable body falls back to status",
			status:  502,
			body:    `<html>bad gateway</html>`,
			wantMsg: "request failed with status 502",
		},
		{
			name:    "empty object falls back to status",
			status:  400,
			body:    `{}`,
			wantMsg: "request failed with status 400",
		},
		{
			name:      "field value may be a bare string",
			status:    400,
			body:      `{"password": "too weak"}`,
			wantMsg:   "too weak",
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeError(tt.status, []byte(tt.body))
			if got.Message != tt.wantMsg {
				t.Fatalf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.Field != tt.wantField {
				t.Fatalf("Field = %q, want %q", got.Field, tt.wantField)
			}
			if got.Status != tt.status {
				t.Fatalf("Status = %d, want %d", got.Status, tt.status)
			}
		})
	}
}

func TestNormalizeError_FirstFieldIsDeterministic(t *testing.T) {
	// JSON object keys carry no order; the extractor picks the
	// lexicographically first field.
	body := []byte(`{"username": ["taken"], "email": ["already exists"]}`)

	for i := 0; i < 16; i++ {
		got := normalizeError(400, body)
		if got.Field != "email" || got.Message != "already exists" {
			t.Fatalf("iteration %d: got field %q message %q", i, got.Field, got.Message)
		}
	}
}
