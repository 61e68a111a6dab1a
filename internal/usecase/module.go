package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/adapter/zinipay"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	PaymentSettingsFromConfig,
	newPaymentProvider,
	NewPaymentUseCase,
	NewOrderUseCase,
)

func newPaymentProvider(client zinipay.Client) PaymentProvider {
	return client
}
