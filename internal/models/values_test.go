package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

func TestNewItemQuantity(t *testing.T) {
	tests := []struct {
		in      float64
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{0.009, true},
		{math.NaN(), true},
		{math.Inf(1), true},
		{0.01, false},
		{1, false},
		{2.5, false},
		{1000, false},
	}

	for _, tt := range tests {
		q, err := NewItemQuantity(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, errs.ErrValidation, "quantity %v", tt.in)
			assert.Equal(t, "Quantity must be at least 0.01", errs.UserMessage(err))
			continue
		}
		require.NoError(t, err, "quantity %v", tt.in)
		assert.Equal(t, tt.in, q.Value())
	}
}

func TestItemQuantityEquality(t *testing.T) {
	a, _ := NewItemQuantity(2)
	b, _ := NewItemQuantity(2)
	c, _ := NewItemQuantity(3)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestNewUnit(t *testing.T) {
	for _, raw := range []string{"unit", "kg", "g", "l", "ml", "piece", " KG "} {
		u, err := NewUnit(raw)
		require.NoError(t, err, raw)
		assert.True(t, u.IsValid())
	}

	_, err := NewUnit("stone")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewUnit("")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestNewPrice(t *testing.T) {
	_, err := NewPrice(-0.01)
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, "Price cannot be negative", errs.UserMessage(err))

	p, err := NewPrice(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Value())

	p, err = NewPrice(2.49)
	require.NoError(t, err)
	assert.Equal(t, 2.49, p.Value())
}

func TestNewOptionalPrice(t *testing.T) {
	p, err := NewOptionalPrice(nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	v := 1.99
	p, err = NewOptionalPrice(&v)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1.99, p.Value())

	neg := -3.0
	_, err = NewOptionalPrice(&neg)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestItemStatusToggle(t *testing.T) {
	s := NewItemStatus(false)
	toggled := s.Toggle()

	assert.False(t, s.IsCompleted())
	assert.True(t, toggled.IsCompleted())
	assert.True(t, toggled.Equals(NewItemStatus(true)))
}

func TestValueObjectsMarshalAsNumbers(t *testing.T) {
	q, _ := NewItemQuantity(1.5)
	p, _ := NewPrice(2.49)

	data, err := json.Marshal(struct {
		Q ItemQuantity `json:"q"`
		P *Price       `json:"p"`
	}{q, &p})
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":1.5,"p":2.49}`, string(data))
}

func TestValueObjectsUnmarshalValidates(t *testing.T) {
	var v struct {
		Q ItemQuantity `json:"q"`
		P *Price       `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"q":2,"p":null}`), &v))
	assert.Equal(t, 2.0, v.Q.Value())
	assert.Nil(t, v.P)

	err := json.Unmarshal([]byte(`{"q":0}`), &v)
	assert.ErrorIs(t, err, errs.ErrValidation)

	err = json.Unmarshal([]byte(`{"q":1,"p":-1}`), &v)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("List name", "  Weekly groceries ")
	require.NoError(t, err)
	assert.Equal(t, "Weekly groceries", name)

	_, err = ValidateName("List name", "   ")
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, "List name is required", errs.UserMessage(err))

	_, err = ValidateName("Item name", strings.Repeat("a", 256))
	require.ErrorIs(t, err, errs.ErrValidation)
}
