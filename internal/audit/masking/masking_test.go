package masking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskSecretKeepsPrefixAndSuffix(t *testing.T) {
	require.Equal(t, "tok_****f3a9", MaskSecret("tok_8c1d2e4bf3a9"))
	require.Equal(t, "inv_****", MaskSecret("inv_ab"))
	require.Equal(t, "****2345", MaskSecret("s3cr3t12345"))
	require.Equal(t, "", MaskSecret("  "))
}

func TestMaskMetadataOnlyTouchesSensitiveKeys(t *testing.T) {
	out := MaskMetadata(map[string]any{
		"workspace": "Espace de Camille",
		"token":     "tok_8c1d2e4bf3a9",
		"attempts":  3,
	})

	require.Equal(t, "Espace de Camille", out["workspace"])
	require.Equal(t, "tok_****f3a9", out["token"])
	require.Equal(t, 3, out["attempts"])
}

func TestMaskMetadataRecursesIntoNestedMaps(t *testing.T) {
	out := MaskMetadata(map[string]any{
		"context": map[string]any{
			"invite_token": "tok_8c1d2e4bf3a9",
			"email":        "camille@example.com",
		},
	})

	nested, ok := out["context"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "tok_****f3a9", nested["invite_token"])
	require.Equal(t, "camille@example.com", nested["email"])
}

func TestMaskMetadataRedactsNonStringSecrets(t *testing.T) {
	out := MaskMetadata(map[string]any{"code": 123456})
	require.Equal(t, "****", out["code"])
}

func TestMaskMetadataEmptyInput(t *testing.T) {
	require.Nil(t, MaskMetadata(nil))
	require.Nil(t, MaskMetadata(map[string]any{"  ": "x"}))
}
