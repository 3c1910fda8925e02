package transaction

import (
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/stretchr/testify/assert"
)

func TestTransactionUpdate_IsEmpty(t *testing.T) {
	assert.True(t, (&TransactionUpdate{}).IsEmpty())
	assert.False(t, (&TransactionUpdate{Name: omit.From("Taxi")}).IsEmpty())
	assert.False(t, (&TransactionUpdate{Description: omitnull.FromPtr[string](nil)}).IsEmpty(),
		"clearing the description is a change")
}
