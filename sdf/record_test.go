package sdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordFieldHelpers(t *testing.T) {
	rec := &Record{Fields: map[string]string{
		"STAR":                 " 3 ",
		"BAD":                  "three",
		"CAS Registry Numbers": "7732-18-5; 7789-20-0;  ; ",
	}}

	n, ok := rec.IntField("STAR")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = rec.IntField("BAD")
	assert.False(t, ok)

	_, ok = rec.IntField("MISSING")
	assert.False(t, ok)

	assert.Equal(t, []string{"7732-18-5", "7789-20-0"}, rec.ListField("CAS Registry Numbers", ";"))
	assert.Nil(t, rec.ListField("MISSING", ";"))
}
