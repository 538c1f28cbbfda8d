package database

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var got struct {
		Filed *Date `json:"filed"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"filed": "2023-03-15"}`), &got))
	require.NotNil(t, got.Filed)
	assert.Equal(t, "2023-03-15", got.Filed.String())

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"filed": "2023-03-15"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"filed": "15/03/2023"}`), &got))
	assert.Error(t, json.Unmarshal([]byte(`{"filed": 20230315}`), &got))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2024, 1, 31, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-31", d.String())

	require.NoError(t, d.Scan("2022-07-04 00:00:00+00:00"))
	assert.Equal(t, "2022-07-04", d.String())

	require.NoError(t, d.Scan([]byte("2021-12-01")))
	assert.Equal(t, "2021-12-01", d.String())

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}
