package postgres_adapter

import (
	"fmt"
	"landmark-service/internal/core/domain"
	"strings"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argID: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

// addKeyset continues after the cursor in created_at DESC, id DESC order.
func (qb *queryBuilder) addKeyset(cursor domain.PageCursor) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("(l.created_at, l.id) < ($%d, $%d)", qb.argID, qb.argID+1))
	qb.args = append(qb.args, cursor.CreatedAt, cursor.ID)
	qb.argID += 2
}

// addLimit appends the LIMIT argument and returns its placeholder.
func (qb *queryBuilder) addLimit(limit int) string {
	placeholder := fmt.Sprintf("$%d", qb.argID)
	qb.args = append(qb.args, limit)
	qb.argID++
	return placeholder
}

func (qb *queryBuilder) where() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

// buildPageQuery turns a normalized page request into SQL and its arguments.
func buildPageQuery(req domain.PageRequest) (string, []interface{}) {
	qb := newQueryBuilder()

	if req.Size != nil {
		qb.addCondition("%s = $%d", "l.size", string(*req.Size))
	}
	if req.Cursor != nil {
		qb.addKeyset(*req.Cursor)
	}
	limit := qb.addLimit(req.Limit)

	query := fmt.Sprintf(`SELECT %s FROM landmarks l %s ORDER BY l.created_at DESC, l.id DESC LIMIT %s`,
		landmarkColumns, qb.where(), limit)
	return query, qb.args
}
