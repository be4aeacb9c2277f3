package mongodb

import (
	"context"
	"testing"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func countResponse(mt *mtest.T, n int32) bson.D {
	return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

// stages returns the pipeline of a started aggregate command
func stages(t *testing.T, cmd bson.Raw) []bson.RawValue {
	t.Helper()
	pipeline, err := cmd.LookupErr("pipeline")
	require.NoError(t, err)
	values, err := pipeline.Array().Values()
	require.NoError(t, err)
	return values
}

func keys(t *testing.T, doc bson.Raw) []string {
	t.Helper()
	elems, err := doc.Elements()
	require.NoError(t, err)
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Key())
	}
	return out
}

// orKeys returns the field matched by each clause of an $or array
func orKeys(t *testing.T, filter bson.Raw) []string {
	t.Helper()
	or, err := filter.LookupErr("$or")
	require.NoError(t, err)
	clauses, err := or.Array().Values()
	require.NoError(t, err)
	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, keys(t, c.Document())...)
	}
	return out
}

func TestFeedbackListSortsByVoteScore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("votes", func(mt *mtest.T) {
		repo := &FeedbackRepository{coll: mt.Coll}
		mt.AddMockResponses(
			countResponse(mt, 7),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "f2"}, {Key: "title", Value: "Battery life"}, {Key: "upvotes", Value: bson.A{"u1", "u2"}}},
				bson.D{{Key: "_id", Value: "f1"}, {Key: "title", Value: "Battery charger"}},
			),
		)

		items, total, err := repo.List(context.Background(), model.FeedbackFilter{
			Search:    "batt",
			SortField: "votes",
			SortDesc:  true,
			Page:      2,
			Limit:     5,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		require.Len(t, items, 2)
		assert.Equal(t, "f2", items[0].ID)
		assert.Equal(t, []string{"u1", "u2"}, items[0].Upvotes)

		count := mt.GetStartedEvent()
		require.NotNil(t, count)
		assert.Equal(t, "aggregate", count.CommandName)

		agg := mt.GetStartedEvent()
		require.NotNil(t, agg)
		assert.Equal(t, "aggregate", agg.CommandName)

		pipeline := stages(t, agg.Command)
		require.Len(t, pipeline, 6)
		assert.Equal(t, []string{"$match"}, keys(t, pipeline[0].Document()))
		assert.ElementsMatch(t, []string{"title", "message"}, orKeys(t, pipeline[0].Document().Lookup("$match").Document()))
		assert.Equal(t, []string{"$addFields"}, keys(t, pipeline[1].Document()))

		sort := pipeline[2].Document().Lookup("$sort").Document()
		assert.Equal(t, []string{"score", "createdAt"}, keys(t, sort))
		assert.Equal(t, int32(-1), sort.Lookup("score").Int32())

		assert.Equal(t, int64(5), pipeline[3].Document().Lookup("$skip").Int64())
		assert.Equal(t, int64(5), pipeline[4].Document().Lookup("$limit").Int64())
		assert.Equal(t, []string{"$project"}, keys(t, pipeline[5].Document()))
	})

	mt.Run("created at", func(mt *mtest.T) {
		repo := &FeedbackRepository{coll: mt.Coll}
		mt.AddMockResponses(
			countResponse(mt, 0),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		items, total, err := repo.List(context.Background(), model.FeedbackFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)

		mt.GetStartedEvent()
		find := mt.GetStartedEvent()
		require.NotNil(t, find)
		assert.Equal(t, "find", find.CommandName)
		assert.Equal(t, []string{"createdAt"}, keys(t, find.Command.Lookup("sort").Document()))
	})
}

func TestOrderListSearch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("or search", func(mt *mtest.T) {
		repo := &OrderRepository{coll: mt.Coll}
		mt.AddMockResponses(
			countResponse(mt, 1),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "o1"}, {Key: "orderNumber", Value: "ORD2401011234"}, {Key: "orderStatus", Value: "shipped"}},
			),
		)

		orders, total, err := repo.List(context.Background(), model.OrderFilter{
			Status:    model.OrderStatusShipped,
			Search:    "asha+1",
			SortField: "totalAmount",
			SortDesc:  true,
			Page:      1,
			Limit:     10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD2401011234", orders[0].OrderNumber)

		mt.GetStartedEvent()
		find := mt.GetStartedEvent()
		require.NotNil(t, find)
		assert.Equal(t, "find", find.CommandName)

		filter := find.Command.Lookup("filter").Document()
		assert.Equal(t, "shipped", filter.Lookup("orderStatus").StringValue())
		assert.Equal(t, []string{"orderNumber", "shippingAddress.fullName", "shippingAddress.email"}, orKeys(t, filter))

		clauses, err := filter.Lookup("$or").Array().Values()
		require.NoError(t, err)
		pattern, options := clauses[0].Document().Lookup("orderNumber").Regex()
		assert.Equal(t, `asha\+1`, pattern)
		assert.Equal(t, "i", options)

		sort := find.Command.Lookup("sort").Document()
		assert.Equal(t, []string{"totalAmount", "createdAt"}, keys(t, sort))
		assert.Equal(t, int32(-1), sort.Lookup("totalAmount").Int32())
		assert.Equal(t, int64(10), find.Command.Lookup("limit").Int64())
		_, err = find.Command.LookupErr("skip")
		assert.Error(t, err)
	})
}

func TestProductListPriceRange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("price range", func(mt *mtest.T) {
		repo := &ProductRepository{coll: mt.Coll}
		mt.AddMockResponses(
			countResponse(mt, 0),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		minPrice, maxPrice := 1000.0, 5000.0
		_, _, err := repo.List(context.Background(), model.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Page: 3, Limit: 20})
		require.NoError(t, err)

		mt.GetStartedEvent()
		find := mt.GetStartedEvent()
		require.NotNil(t, find)
		filter := find.Command.Lookup("filter").Document()
		assert.True(t, filter.Lookup("isActive").Boolean())
		assert.Equal(t, 1000.0, filter.Lookup("price", "$gte").Double())
		assert.Equal(t, 5000.0, filter.Lookup("price", "$lte").Double())
		assert.Equal(t, int64(40), find.Command.Lookup("skip").Int64())
	})
}

func TestTranslateErrors(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("not found", func(mt *mtest.T) {
		repo := &OrderRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, interfaces.ErrNotFound)
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		repo := &OrderRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))

		err := repo.Create(context.Background(), &model.Order{ID: "o1", OrderNumber: "ORD2401011234"})
		assert.ErrorIs(t, err, interfaces.ErrDuplicate)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := &FeedbackRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(context.Background(), &model.Feedback{ID: "gone"})
		assert.ErrorIs(t, err, interfaces.ErrNotFound)
	})
}
