package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"www.velocidex.com/golang/getthis/internal/model"
)

func rec() *model.FileNameRecord {
	return &model.FileNameRecord{
		ParentSequenceNumber:    1,
		ParentSegmentNumberHigh: 0,
		ParentSegmentNumberLow:  5,
		FileName:                "evil.exe",
		FileNameLength:          8,
	}
}

func TestMakeSampleNameNilRecord(t *testing.T) {
	_, err := MakeSampleName(model.ContentSpec{Type: model.ContentData}, nil, "", 0)
	require.Error(t, err)
}

func TestMakeSampleNameFourTemplates(t *testing.T) {
	spec := model.ContentSpec{Type: model.ContentData}

	name, err := MakeSampleName(spec, rec(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "0001000000000005_evil.exe_data", name)

	name, err = MakeSampleName(spec, rec(), "Zone.Identifier", 0)
	require.NoError(t, err)
	assert.Equal(t, "0001000000000005__evil.exe_Zone.Identifier_data", name)

	name, err = MakeSampleName(spec, rec(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, "0001000000000005__evil.exe_2_data", name)

	name, err = MakeSampleName(spec, rec(), "Zone.Identifier", 2)
	require.NoError(t, err)
	assert.Equal(t, "0001000000000005_evil.exe_Zone.Identifier_2_data", name)
}

func TestMakeSampleNameSanitizesReservedChars(t *testing.T) {
	r := rec()
	r.FileName = "weird name:with#chars"
	r.FileNameLength = uint8(len(r.FileName))

	name, err := MakeSampleName(model.ContentSpec{Type: model.ContentStrings}, r, "", 0)
	require.NoError(t, err)
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, ":")
	assert.NotContains(t, name, "#")
}

func TestMakeSampleNameSanitizeIsIdempotent(t *testing.T) {
	name, err := MakeSampleName(model.ContentSpec{Type: model.ContentRaw}, rec(), "alt name", 1)
	require.NoError(t, err)
	assert.Equal(t, sanitize(name), name)
}
