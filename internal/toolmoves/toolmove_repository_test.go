package toolmoves

import (
	"testing"
	"time"

	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeldFieldsRecordWritesEveryProvidedField(t *testing.T) {
	updatedAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	patch := models.WeldTouchupPatch{WeldTouchupCompleted: boolPtr(true), WeldTouchupNotes: stringPtr("done")}

	sql, _, err := goqu.Dialect("postgres").
		Update("tool_moves").
		Set(weldFieldsRecord(patch, updatedAt)).
		Where(goqu.Ex{"id": moveID}).
		ToSQL()

	require.NoError(t, err)
	assert.Contains(t, sql, `"weld_touchup_completed"=TRUE`)
	assert.Contains(t, sql, `"weld_touchup_notes"='done'`)
	assert.NotContains(t, sql, `"requires_weld_touchup"`)
	assert.Contains(t, sql, `"weld_touchup_completed" IS DISTINCT FROM TRUE`)
	assert.Contains(t, sql, `"weld_touchup_notes" IS DISTINCT FROM 'done'`)
	assert.Contains(t, sql, `ELSE "updated_at"`)
}
