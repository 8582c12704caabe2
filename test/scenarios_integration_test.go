//go:build integration

package test

import (
	"context"
	"testing"
	"time"

	"featuredflags/cache"
	"featuredflags/entity"
	"featuredflags/repository"
	"featuredflags/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleRepository_FindActiveRules(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.SeedFixtures(t)

	repo := repository.NewRuleRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		flag  string
		count int
	}{
		{"flag_notExist", 0},
		{"flag1", 0},
		{"flag2", 1},
		{"flagDateJanuary", 1},
		{"flagDateFebruary", 0},
		{"flagDateStartJanuary", 1},
		{"flagDateStartFebruary", 0},
		{"flagDateEndFebruary", 1},
		{"flagDateEndJanuary", 0},
		{"flagFirstMatch", 2},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			rules, err := repo.FindActiveRules(ctx, tt.flag, FixtureTime)
			require.NoError(t, err)
			assert.Len(t, rules, tt.count)
		})
	}

	t.Run("rules come back in id order", func(t *testing.T) {
		rules, err := repo.FindActiveRules(ctx, "flagFirstMatch", FixtureTime)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Less(t, rules[0].ID, rules[1].ID)
		assert.Equal(t, map[string]string{"variant": "first"}, rules[0].ReturnValues())
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		rules, err := repo.FindActiveRules(ctx, "flagReturnParamsJanuary", time.Date(2016, time.January, 31, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, rules, 1)

		rules, err = repo.FindActiveRules(ctx, "flagReturnParamsJanuary", time.Date(2016, time.February, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("sql and in-process date semantics agree", func(t *testing.T) {
		memory := repository.NewMemoryRuleRepository(FixtureRules()...)
		instants := []time.Time{
			FixtureTime,
			time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2016, time.February, 15, 12, 0, 0, 0, time.UTC),
			time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
		for _, rule := range FixtureRules() {
			for _, at := range instants {
				fromSQL, err := repo.FindActiveRules(ctx, rule.Name, at)
				require.NoError(t, err)
				fromMemory, err := memory.FindActiveRules(ctx, rule.Name, at)
				require.NoError(t, err)
				assert.Equal(t, len(fromMemory), len(fromSQL), "flag %s at %s", rule.Name, at)
			}
		}
	})
}

func TestFeaturedFlags_WithPostgresAndRedis(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.SeedFixtures(t)
	client := SetupTestRedis(t)

	end := FixtureTime.Add(time.Hour)
	testDB.InsertRule(t, entity.Rule{
		Name:         "flagHour",
		Status:       true,
		EndDate:      Str(end.Format(entity.DateLayout)),
		ReturnParams: Str(`{"banner":"on"}`),
	})

	repo := repository.NewRuleRepository(testDB.DB)
	redisCache := cache.NewRedisCache(client, "it:")
	flags := service.NewFeaturedFlags(repo, redisCache, GetTestLogger(), service.WithFixedTime(FixtureTime))
	ctx := context.Background()

	t.Run("scenarios", func(t *testing.T) {
		enabled, err := flags.IsEnabled(ctx, "flagDateJanuary", nil)
		require.NoError(t, err)
		assert.True(t, enabled)

		enabled, err = flags.IsEnabled(ctx, "flag2", map[string]string{"data": "dt_true"})
		require.NoError(t, err)
		assert.True(t, enabled)

		enabled, err = flags.IsEnabled(ctx, "flag2", map[string]string{"data": "dt_not_exist"})
		require.NoError(t, err)
		assert.False(t, enabled)

		values, err := flags.GetEnabledValues(ctx, "flagReturnParamsDisabled", nil)
		require.NoError(t, err)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})

	t.Run("ttl follows end date", func(t *testing.T) {
		values, err := flags.GetEnabledValues(ctx, "flagHour", nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"banner": "on"}, values)

		ttl, err := client.TTL(ctx, "it:"+service.CacheKey(service.GetEnabledValuesPrefix, "flagHour", nil)).Result()
		require.NoError(t, err)
		assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 2)
	})

	t.Run("no end date is persisted without expiry", func(t *testing.T) {
		_, err := flags.IsEnabled(ctx, "flagReturnParams", nil)
		require.NoError(t, err)

		ttl, err := client.TTL(ctx, "it:"+service.CacheKey(service.IsEnabledPrefix, "flagReturnParams", nil)).Result()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(-1), ttl)
	})

	t.Run("cached entry wins over the store", func(t *testing.T) {
		data, err := entity.NewDisabledResult().MarshalBinary()
		require.NoError(t, err)
		key := "it:" + service.CacheKey(service.IsEnabledPrefix, "flagCache", nil)
		require.NoError(t, client.Set(ctx, key, data, 0).Err())

		testDB.InsertRule(t, entity.Rule{Name: "flagCache", Status: true})

		enabled, err := flags.IsEnabled(ctx, "flagCache", nil)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("closed redis degrades to the store", func(t *testing.T) {
		broken := SetupTestRedis(t)
		require.NoError(t, broken.Close())
		flags.SetCache(cache.NewRedisCache(broken, "it:"))
		defer flags.SetCache(redisCache)

		enabled, err := flags.IsEnabled(ctx, "flag2", nil)
		require.NoError(t, err)
		assert.True(t, enabled)
	})
}
