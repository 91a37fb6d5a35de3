package testutil

import (
	"testing"

	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestMockContext(t *testing.T) {
	ctx := MockContext()

	db := xcontext.DB(ctx)
	require.True(t, db.Migrator().HasTable(&entity.User{}))
	require.True(t, db.Migrator().HasTable(&entity.InviteRecord{}))
	require.True(t, db.Migrator().HasTable(&entity.TaskRecord{}))

	require.Equal(t, int64(100), xcontext.Configs(ctx).Lotto.TicketPrice)
}
