package mysql

import (
	"database/sql"
	"errors"
	"testing"

	"robotapp-backend/internal/repository/interfaces"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestWhereClause(t *testing.T) {
	w := &where{}
	assert.Equal(t, "", w.clause())

	w.add("status = ?", "open")
	w.search("50%_off", "subject", "email")
	assert.Equal(t, " WHERE status = ? AND (subject LIKE ? OR email LIKE ?)", w.clause())
	assert.Equal(t, []interface{}{"open", `%50\%\_off%`, `%50\%\_off%`}, w.args)
}

func TestWhereSearchEmptyTerm(t *testing.T) {
	w := &where{}
	w.search("", "name")
	assert.Empty(t, w.conds)
	assert.Empty(t, w.args)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "price ASC, created_at DESC", orderBy(productSortColumns, "price", false))
	assert.Equal(t, "created_at DESC", orderBy(productSortColumns, "createdAt", true))
	assert.Equal(t, "created_at DESC", orderBy(productSortColumns, "password; DROP TABLE", true))
	assert.Equal(t, "score DESC, created_at DESC", orderBy(feedbackSortColumns, "votes", true))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.Equal(t, interfaces.ErrNotFound, translateError(sql.ErrNoRows))
	assert.Equal(t, interfaces.ErrDuplicate, translateError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "", joinTags(nil))
	assert.Equal(t, ",wifi,setup,", joinTags([]string{"wifi", "setup"}))
}

func TestColumnsSet(t *testing.T) {
	cols := (&columns{}).set("a", 1).set("b", "x")
	assert.Equal(t, []string{"a", "b"}, cols.names)
	assert.Equal(t, []interface{}{1, "x"}, cols.values)
}

func TestConstructorsReturnRepositoryInterfaces(t *testing.T) {
	var (
		users     interfaces.UserRepository     = NewUserRepository(nil)
		orders    interfaces.OrderRepository    = NewOrderRepository(nil)
		products  interfaces.ProductRepository  = NewProductRepository(nil)
		tickets   interfaces.TicketRepository   = NewTicketRepository(nil)
		feedback  interfaces.FeedbackRepository = NewFeedbackRepository(nil)
		questions interfaces.QuestionRepository = NewQuestionRepository(nil)
	)
	for _, repo := range []interface{}{users, orders, products, tickets, feedback, questions} {
		assert.NotNil(t, repo)
	}
}
