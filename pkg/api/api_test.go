package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/models"
)

func TestCodec(t *testing.T) {
	var c Codec
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&AddPersonRequest{Name: "Alice"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice"}`, string(data))

	var req RenamePersonRequest
	require.NoError(t, c.Unmarshal([]byte(`{"person_id":"p1","name":"Bob"}`), &req))
	assert.Equal(t, RenamePersonRequest{PersonID: "p1", Name: "Bob"}, req)

	var empty ListPersonsRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))
	assert.Error(t, c.Unmarshal([]byte(`{`), &req))
}

func TestNewPersonList(t *testing.T) {
	f := calculator.NewFormatter(language.English)
	snap := []models.PersonWithTransactions{
		{
			Person:       models.Person{ID: "a", Name: "Alice"},
			Transactions: []models.Transaction{{ID: "t1", PersonID: "a", Amount: 400}},
		},
		{
			Person:       models.Person{ID: "b", Name: "Bob"},
			Transactions: []models.Transaction{{ID: "t2", PersonID: "b", Amount: 700, Quantity: 2}},
		},
		{
			Person:       models.Person{ID: "c", Name: "Carol"},
			Transactions: []models.Transaction{{ID: "t3", PersonID: "c", Amount: -300}},
		},
	}

	list := NewPersonList(f, snap)

	require.Len(t, list.Rows, 3)
	assert.Equal(t, &Balance{Amount: 800, Text: "8.00", Treatment: TreatmentOwedToUser}, list.Total)
	assert.Equal(t, int64(2), list.TotalItems)
	assert.Equal(t, "Carol", list.Rows[2].Person.Name)
	assert.Equal(t, &Balance{Amount: -300, Text: "-3.00", Treatment: TreatmentOwedByUser}, list.Rows[2].Balance)

	assert.Equal(t, snap, list.Snapshot())
}
