package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора покупателя.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// Ошибка, если снимок цены позиции отрицательный.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match lines sum")

	// ErrCartEmpty — checkout вызван с пустой корзиной.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrPaymentMethodUnsupported — запрошен способ оплаты, который витрина не поддерживает.
	ErrPaymentMethodUnsupported = errors.New("payment method is not supported")
	// ErrProductNotFound — каталог не знает такой идентификатор товара.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound — справочник пользователей не знает такой идентификатор.
	ErrUserNotFound = errors.New("user not found")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists сигнализирует о попытке создать заказ с занятым ID.
	ErrOrderExists = errors.New("order already exists")

	// ErrPaymentIntentFailed — шлюз не смог создать платёжное намерение.
	// Заказ к этому моменту уже сохранён и остаётся pending; создание
	// намерения можно повторить для того же заказа.
	ErrPaymentIntentFailed = errors.New("payment intent creation failed")
	// ErrEmailDelivery — письмо с подтверждением покупки не доставлено.
	// Не ретраится и не откатывает уже подтверждённый заказ.
	ErrEmailDelivery = errors.New("email delivery failed")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
	// ErrOutboxNotFound — записи outbox с таким идентификатором нет.
	ErrOutboxNotFound = errors.New("outbox message not found")
)

// IsCheckoutInputError проверяет, относится ли ошибка к невалидному входу checkout.
// Такие ошибки отклоняются до какой-либо записи в хранилище.
func IsCheckoutInputError(err error) bool {
	return errors.Is(err, ErrUserRequired) ||
		errors.Is(err, ErrCartEmpty) ||
		errors.Is(err, ErrPaymentMethodUnsupported) ||
		errors.Is(err, ErrLineQtyInvalid) ||
		errors.Is(err, ErrProductNotFound)
}
