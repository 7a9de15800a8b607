package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBetweenFilterIsInclusive(t *testing.T) {
	start, end := DayBounds(day(2025, 10, 30))

	assert.Equal(t, bson.M{"date": bson.M{"$gte": start, "$lte": end}}, betweenFilter(start, end))
}
