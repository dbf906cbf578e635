package realtime

import (
	"fmt"

	"github.com/example/veyara-realtime/internal/domain/user"
)

// Topic is a fan-out channel key. Topics have no storage of their own.
type Topic string

func UserTopic(role user.Role, userID string) Topic {
	return Topic(fmt.Sprintf("user:%s-%s", role, userID))
}

func OrderTopic(orderID string) Topic {
	return Topic("order:" + orderID)
}

func DeliveryTopic(orderID string) Topic {
	return Topic("delivery:" + orderID)
}

func StoreTopic(storeID string) Topic {
	return Topic("store:" + storeID)
}
