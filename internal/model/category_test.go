package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_WireForm(t *testing.T) {
	known := Known(TagConsultation)
	assert.True(t, known.IsKnown())
	assert.Equal(t, "consultation", known.String())
	assert.Equal(t, TagConsultation, known.Tag())

	unknown := Unknown("physiotherapy session fee")
	assert.False(t, unknown.IsKnown())
	assert.Equal(t, "unknown:physiotherapy session fee", unknown.String())
	assert.Equal(t, "", unknown.Tag())
	assert.Equal(t, "physiotherapy session fee", unknown.Label())
}

func TestCategory_JSON(t *testing.T) {
	for _, c := range []Category{Known(TagSubTotal), Unknown("registration fee"), Unknown("")} {
		data, err := json.Marshal(c)
		require.NoError(t, err)

		var back Category
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, c, back)
	}
}
