package services

import (
	"errors"
	"regexp"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInquiryReferenceFormat(t *testing.T) {
	format := regexp.MustCompile(`^INQ-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref := newInquiryReference()
		assert.Regexp(t, format, ref)
		assert.False(t, seen[ref], "references must not repeat: %s", ref)
		seen[ref] = true
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, isDuplicateEntry(dup))

	other := &mysqldriver.MySQLError{Number: 1452, Message: "FK violation"}
	assert.False(t, isDuplicateEntry(other))
	assert.False(t, isDuplicateEntry(errors.New("plain error")))
	assert.False(t, isDuplicateEntry(nil))
}

func TestCreateWithRetryRegeneratesOnCollision(t *testing.T) {
	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}

	var refs []string
	err := createWithRetry(5, func(ref string) error {
		refs = append(refs, ref)
		if len(refs) < 3 {
			return dup
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.NotEqual(t, refs[0], refs[1], "a collision must get a fresh reference")
	assert.NotEqual(t, refs[1], refs[2])
}

func TestCreateWithRetryAbortsOnOtherErrors(t *testing.T) {
	boom := errors.New("connection lost")

	calls := 0
	err := createWithRetry(5, func(string) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "non-duplicate errors must not be retried")
}

func TestCreateWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}

	calls := 0
	err := createWithRetry(5, func(string) error {
		calls++
		return dup
	})
	require.Error(t, err)
	assert.True(t, isDuplicateEntry(err))
	assert.Equal(t, 5, calls)
}
