package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hamiltonroad/checked-out/model"
)

func TestResolveNoCopies(t *testing.T) {
	r := New(nil)

	require.Equal(t, model.StatusAvailable, r.Resolve(nil))
	require.Equal(t, model.StatusAvailable, r.Resolve([]model.Copy{}))
}

func TestResolveCopyNeverCheckedOut(t *testing.T) {
	r := New(nil)

	status := r.Resolve([]model.Copy{{ID: 1, BookID: 7}})
	require.Equal(t, model.StatusAvailable, status)
}

func TestResolveAllCheckoutsReturned(t *testing.T) {
	r := New(nil)
	ret := time.Now().UTC()

	status := r.Resolve([]model.Copy{{
		ID: 1,
		Checkouts: []model.Checkout{
			{ID: 10, ReturnDate: &ret},
			{ID: 11, ReturnDate: &ret},
		},
	}})
	require.Equal(t, model.StatusAvailable, status)
}

func TestResolveAllCopiesOut(t *testing.T) {
	r := New(nil)
	ret := time.Now().UTC()

	status := r.Resolve([]model.Copy{
		{ID: 1, Checkouts: []model.Checkout{{ID: 10}}},
		{ID: 2, Checkouts: []model.Checkout{
			{ID: 11, ReturnDate: &ret},
			{ID: 12}, // still out
		}},
	})
	require.Equal(t, model.StatusCheckedOut, status)
}

func TestResolveOneOfManyAvailable(t *testing.T) {
	r := New(nil)
	ret := time.Now().UTC()

	status := r.Resolve([]model.Copy{
		{ID: 1, Checkouts: []model.Checkout{{ID: 10}}},
		{ID: 2, Checkouts: []model.Checkout{{ID: 11, ReturnDate: &ret}}},
		{ID: 3, Checkouts: []model.Checkout{{ID: 12}}},
	})
	require.Equal(t, model.StatusAvailable, status)
}

func TestResolveReturnFlipsStatus(t *testing.T) {
	r := New(nil)

	copies := []model.Copy{{ID: 1, Checkouts: []model.Checkout{{ID: 10}}}}
	require.Equal(t, model.StatusCheckedOut, r.Resolve(copies))

	ret := time.Now().UTC()
	copies[0].Checkouts[0].ReturnDate = &ret
	require.Equal(t, model.StatusAvailable, r.Resolve(copies))
}
