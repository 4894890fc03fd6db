package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSession_New(t *testing.T) {
	sess := New("test-id", "test-token", time.Now().Add(24*time.Hour))

	if sess.ID != "test-id" || sess.Token != "test-token" {
		t.Errorf("New() = %q/%q", sess.ID, sess.Token)
	}
	if !sess.IsNew() || !sess.IsDirty() {
		t.Error("new session must be new and dirty")
	}
	if sess.Values == nil {
		t.Error("Values is nil")
	}
}

func TestSession_Values(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))
	sess.ClearDirty()

	sess.SetValue("key", "value")
	if !sess.IsDirty() {
		t.Error("SetValue should mark session as dirty")
	}
	if val, ok := sess.GetValue("key"); !ok || val != "value" {
		t.Errorf("GetValue = %v, %v", val, ok)
	}

	sess.ClearDirty()
	sess.DeleteValue("missing")
	if sess.IsDirty() {
		t.Error("deleting a missing key must not mark dirty")
	}
	sess.DeleteValue("key")
	if !sess.IsDirty() {
		t.Error("DeleteValue should mark session as dirty")
	}

	sess.SetValue("a", 1)
	sess.ClearDirty()
	sess.Clear()
	if len(sess.Values) != 0 || !sess.IsDirty() {
		t.Error("Clear should empty values and mark dirty")
	}
}

func TestSession_Expiry(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))
	if sess.IsExpired() || sess.TTL() <= 0 {
		t.Error("future expiry should not be expired")
	}

	sess.ExpiresAt = time.Now().Add(-time.Hour)
	if !sess.IsExpired() || sess.TTL() != 0 {
		t.Error("past expiry should be expired with zero TTL")
	}
}

func TestSession_Clone(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))
	sess.SetValue("a", 1)

	cp := sess.Clone()
	cp.SetValue("b", 2)
	if _, ok := sess.GetValue("b"); ok {
		t.Error("Clone shares Values")
	}
}

func TestValue(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))
	sess.SetValue("string", "hello")
	sess.SetValue("int", 42)
	sess.SetValue("number", json.Number("7"))
	sess.SetValue("float", 3.0)

	if v, err := Value[string](sess, "string"); err != nil || v != "hello" {
		t.Errorf("Value[string] = %q, %v", v, err)
	}
	if v, err := Value[int](sess, "int"); err != nil || v != 42 {
		t.Errorf("Value[int] = %d, %v", v, err)
	}
	if v, err := Value[int64](sess, "number"); err != nil || v != 7 {
		t.Errorf("Value[int64] from json.Number = %d, %v", v, err)
	}
	if v, err := Value[int](sess, "float"); err != nil || v != 3 {
		t.Errorf("Value[int] from float64 = %d, %v", v, err)
	}
	if _, err := Value[int](sess, "string"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Value[int] on string error = %v", err)
	}
	if _, err := Value[string](sess, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key error = %v", err)
	}
	if _, err := Value[string](nil, "key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("nil session error = %v", err)
	}

	if got := ValueOr(sess, "missing", "default"); got != "default" {
		t.Errorf("ValueOr = %q", got)
	}
}
