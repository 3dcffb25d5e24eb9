package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "Go Version: "+info.GoVersion)
}

func TestInfoJSON(t *testing.T) {
	raw, err := Info{Version: "1.2.3", Revision: "abc1234"}.JSON()
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.Equal(t, "1.2.3", m["version"])
	assert.Equal(t, "abc1234", m["revision"])
}
