package rabbit

import (
	"atsumeru/internal/consumerWorker"
	"atsumeru/internal/service"
)

// The client is the publisher of the service and the source of the notification worker.
var (
	_ service.ActivityPublisher = (*Client)(nil)
	_ consumerWorker.Consumer   = (*Client)(nil)
)
