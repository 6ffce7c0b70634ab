package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"omonat/internal/services"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Data(map[string]int{"total": 3}).
		SuccessNotification("Saqlandi").
		Redirect("/debts").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := decodeBody(t, w)
	if body["redirectTo"] != "/debts" {
		t.Errorf("redirectTo = %v", body["redirectTo"])
	}
	if _, ok := body["error"]; ok {
		t.Error("success response should carry no error")
	}
	notes, _ := body["notifications"].([]any)
	if len(notes) != 1 {
		t.Fatalf("notifications = %v", body["notifications"])
	}
	if n := notes[0].(map[string]any); n["type"] != "success" || n["message"] != "Saqlandi" {
		t.Errorf("notification = %v", n)
	}
}

func TestResponseBuilder_Notices(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Notices(
			services.Notice{Level: services.Info, Message: "a"},
			services.Notice{Level: services.Success, Message: "b"},
		).
		Notify(services.Failure, "c").
		Write(w)

	notes, _ := decodeBody(t, w)["notifications"].([]any)
	want := []string{"info", "success", "error"}
	if len(notes) != len(want) {
		t.Fatalf("notifications = %v", notes)
	}
	for i, n := range notes {
		if got := n.(map[string]any)["type"]; got != want[i] {
			t.Errorf("notification %d type = %v, want %s", i, got, want[i])
		}
	}
}

func TestResponseBuilder_HeadersAndCookies(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Header("Retry-After", "1").
		Cookie(&http.Cookie{Name: "jwt", Value: "t", HttpOnly: true}).
		Write(w)

	if w.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "jwt" || !cookies[0].HttpOnly {
		t.Errorf("cookies = %+v", cookies)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *ResponseBuilder
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "bad request",
			builder:    BadRequestError("Invalid input"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid input",
		},
		{
			name:       "validation",
			builder:    ValidationError("Ismni kiriting", map[string]string{"creditorName": "Ismni kiriting"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Ismni kiriting",
		},
		{
			name:       "not found",
			builder:    NotFoundError("Topilmadi", "/debts"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Topilmadi",
		},
		{
			name:       "internal server error",
			builder:    ErrorResponse(http.StatusInternalServerError, "Something broke"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			e, _ := decodeBody(t, w)["error"].(map[string]any)
			if e == nil || e["message"] != tt.wantMsg {
				t.Errorf("error = %v, want message %q", e, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundErrorLinksBack(t *testing.T) {
	w := httptest.NewRecorder()
	NotFoundError("Topilmadi", "/receivables").Write(w)

	e, _ := decodeBody(t, w)["error"].(map[string]any)
	if e["back"] != "/receivables" {
		t.Errorf("back = %v", e["back"])
	}
}

func TestRedirectResponse(t *testing.T) {
	w := httptest.NewRecorder()
	RedirectResponse("/authentication/login").Write(w)

	if w.Code != http.StatusSeeOther {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if w.Header().Get("Location") != "/authentication/login" {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}
	if decodeBody(t, w)["redirectTo"] != "/authentication/login" {
		t.Errorf("body = %s", w.Body.String())
	}
}
