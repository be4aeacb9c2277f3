package service

import (
	stderrors "errors"
	"unicode/utf8"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/repository/interfaces"
)

// repoError converts repository sentinels into application errors
func repoError(err error, notFound errors.ErrorCode, message string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, interfaces.ErrNotFound):
		return errors.New(notFound, message)
	case stderrors.Is(err, interfaces.ErrDuplicate):
		return errors.Wrap(errors.ErrResourceExists, "resource already exists", err)
	default:
		if _, ok := errors.As(err); ok {
			return err
		}
		return errors.Wrap(errors.ErrDatabase, "database error", err)
	}
}

// lengthBetween counts characters, matching the binding min/max tags
func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// toggle adds id to set, or removes it when present. Reports whether id is now in the set.
func toggle(set []string, id string) ([]string, bool) {
	for i, v := range set {
		if v == id {
			return append(set[:i:i], set[i+1:]...), false
		}
	}
	return append(set, id), true
}

func without(set []string, id string) []string {
	out := set[:0:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
