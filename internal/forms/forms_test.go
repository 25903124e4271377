package forms

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestSigninForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		values     url.Values
		wantValid  bool
		wantErrors []string
	}{
		{"both present", url.Values{"username": {"alice"}, "password": {"secret1"}}, true, nil},
		{"missing password", url.Values{"username": {"alice"}}, false, []string{"password"}},
		{"missing both", url.Values{}, false, []string{"username", "password"}},
		{"blank username", url.Values{"username": {"  "}, "password": {"x"}}, false, []string{"username"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSigninForm(tt.values)
			if got := f.Validate(); got != tt.wantValid {
				t.Fatalf("Validate() = %t, want %t (errors %v)", got, tt.wantValid, f.Errors)
			}
			for _, field := range tt.wantErrors {
				if len(f.FieldErrors(field)) == 0 {
					t.Errorf("expected error on %s", field)
				}
			}
			if len(f.Errors) != len(tt.wantErrors) {
				t.Errorf("errors = %v, want fields %v", f.Errors, tt.wantErrors)
			}
		})
	}
}

func TestSigninForm_TrimsUsername(t *testing.T) {
	f := NewSigninForm(url.Values{"username": {"  alice "}, "password": {" secret1 "}})
	if !f.Validate() {
		t.Fatalf("Validate() = false, errors %v", f.Errors)
	}
	if f.Username != "alice" {
		t.Errorf("Username = %q, want %q", f.Username, "alice")
	}
	if f.Password != " secret1 " {
		t.Errorf("Password = %q, want it untouched", f.Password)
	}
	if f.Get("username") != "  alice " {
		t.Errorf("submitted value changed: %q", f.Get("username"))
	}
}

func TestForm_NonFieldErrors(t *testing.T) {
	f := NewSigninForm(url.Values{"username": {"alice"}, "password": {"x"}})
	if !f.Validate() {
		t.Fatal("expected valid form")
	}
	f.AddError("", "restricted")
	if f.Valid() {
		t.Fatal("non-field error should invalidate the form")
	}
	if len(f.NonFieldErrors) != 1 || len(f.Errors) != 0 {
		t.Fatalf("NonFieldErrors=%v Errors=%v", f.NonFieldErrors, f.Errors)
	}
}

func boardsExist(ids ...int64) BoardExists {
	return func(ctx context.Context, id int64) (bool, error) {
		for _, known := range ids {
			if known == id {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestPostForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		values     url.Values
		wantValid  bool
		wantErrors []string
		wantBoard  *int64
	}{
		{
			name:      "valid with board",
			values:    url.Values{"title": {"Hello"}, "board": {"2"}, "content": {"body"}},
			wantValid: true,
			wantBoard: ptr(2),
		},
		{
			name:      "valid without board",
			values:    url.Values{"title": {"Hello"}, "content": {"body"}},
			wantValid: true,
		},
		{
			name:       "missing title",
			values:     url.Values{"board": {"2"}, "content": {"body"}},
			wantErrors: []string{"title"},
		},
		{
			name:       "title too long",
			values:     url.Values{"title": {strings.Repeat("x", MaxTitleLength+1)}, "content": {"body"}},
			wantErrors: []string{"title"},
		},
		{
			name:       "unknown board",
			values:     url.Values{"title": {"Hello"}, "board": {"9"}, "content": {"body"}},
			wantErrors: []string{"board"},
		},
		{
			name:       "non-numeric board",
			values:     url.Values{"title": {"Hello"}, "board": {"free"}, "content": {"body"}},
			wantErrors: []string{"board"},
		},
		{
			name:       "missing content",
			values:     url.Values{"title": {"Hello"}},
			wantErrors: []string{"content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPostForm(tt.values)
			valid, err := f.Validate(context.Background(), boardsExist(1, 2))
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if valid != (len(tt.wantErrors) == 0) {
				t.Fatalf("valid = %t, errors = %v", valid, f.Errors)
			}
			for _, field := range tt.wantErrors {
				if len(f.FieldErrors(field)) == 0 {
					t.Errorf("expected error on %s, got %v", field, f.Errors)
				}
			}
			if tt.wantBoard != nil && (f.BoardID == nil || *f.BoardID != *tt.wantBoard) {
				t.Errorf("BoardID = %v, want %d", f.BoardID, *tt.wantBoard)
			}
		})
	}
}

func TestPostForm_Messages(t *testing.T) {
	f := NewPostForm(url.Values{"title": {strings.Repeat("é", MaxTitleLength+5)}, "content": {"   "}})
	if valid, err := f.Validate(context.Background(), boardsExist()); err != nil || valid {
		t.Fatalf("Validate = %t, %v; want invalid", valid, err)
	}
	want := "Ensure this value has at most 200 characters (it has 205)."
	if got := f.FieldErrors("title"); len(got) != 1 || got[0] != want {
		t.Errorf("title errors = %q, want [%q]", got, want)
	}
	if got := f.FieldErrors("content"); len(got) != 1 || got[0] != msgRequired {
		t.Errorf("content errors = %q", got)
	}
	if f.Content != "   " {
		t.Errorf("Content = %q, want the submitted value", f.Content)
	}
}

func TestPostForm_PreservesValuesOnError(t *testing.T) {
	f := NewPostForm(url.Values{"board": {"2"}, "content": {"my long draft"}})
	valid, err := f.Validate(context.Background(), boardsExist(2))
	if err != nil || valid {
		t.Fatalf("Validate = %t, %v; want invalid", valid, err)
	}
	if f.Get("content") != "my long draft" {
		t.Errorf("content = %q", f.Get("content"))
	}
	if f.SelectedBoard() != 2 {
		t.Errorf("SelectedBoard = %d, want 2", f.SelectedBoard())
	}
}

func TestPostForm_IgnoresServerManagedFields(t *testing.T) {
	f := NewPostForm(url.Values{
		"title": {"Hello"}, "content": {"body"},
		"is_notice": {"true"}, "views": {"1000"}, "author": {"1"},
	})
	valid, err := f.Validate(context.Background(), boardsExist())
	if err != nil || !valid {
		t.Fatalf("Validate = %t, %v", valid, err)
	}
	if f.BoardID != nil {
		t.Errorf("BoardID = %v, want nil", f.BoardID)
	}
}

func TestPostForm_BoardLookupError(t *testing.T) {
	f := NewPostForm(url.Values{"title": {"Hello"}, "board": {"1"}, "content": {"body"}})
	failing := func(ctx context.Context, id int64) (bool, error) {
		return false, errors.New("db down")
	}
	if _, err := f.Validate(context.Background(), failing); err == nil {
		t.Fatal("expected lookup error to propagate")
	}
}

func ptr(v int64) *int64 { return &v }
