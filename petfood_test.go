package petfood_test

import (
	"testing"

	petfood "github.com/thaochithai/pet-food-analysis"

	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := petfood.Errorf(petfood.ENOTFOUND, "term directory %q not found", "dog_food")

	assert.Equal(t, petfood.ENOTFOUND, petfood.ErrorCode(err))
	assert.Equal(t, "term directory \"dog_food\" not found", petfood.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, petfood.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, petfood.ErrorMessage(nil))
}
