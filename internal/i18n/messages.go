package i18n

// Message keys.
const (
	FirstNameRequired = "customer.firstNameRequired"
	FirstNameMin      = "customer.firstNameMin"
	LastNameRequired  = "customer.lastNameRequired"
	LastNameMin       = "customer.lastNameMin"
	EmailRequired     = "customer.emailRequired"
	EmailInvalid      = "customer.emailInvalid"
	PhoneRequired     = "customer.phoneRequired"
	PhoneInvalid      = "customer.phoneInvalid"

	ZipCodeRequired      = "shipping.zipCodeRequired"
	ZipCodeInvalid       = "shipping.zipCodeInvalid"
	StreetRequired       = "shipping.streetRequired"
	NumberRequired       = "shipping.numberRequired"
	NeighborhoodRequired = "shipping.neighborhoodRequired"
	CityRequired         = "shipping.cityRequired"
	StateRequired        = "shipping.stateRequired"
	ShippingRequired     = "shipping.shippingRequired"
	ZipCodeNotFound      = "shipping.zipCodeNotFound"
	AddressLookupFailed  = "shipping.addressLookupFailed"
	ShippingUnavailable  = "shipping.unavailable"
	ShippingOptionGone   = "shipping.optionUnknown"

	MethodUnavailable  = "payment.methodUnavailable"
	CardNumberRequired = "payment.cardNumberRequired"
	CardNumberInvalid  = "payment.cardNumberInvalid"
	CardNameRequired   = "payment.cardNameRequired"
	CardNameMin        = "payment.cardNameMin"
	ExpiryRequired     = "payment.expiryRequired"
	ExpiryInvalid      = "payment.expiryInvalid"
	ExpiryInvalidMonth = "payment.expiryInvalidMonth"
	ExpiryExpired      = "payment.expiryExpired"
	CVVRequired        = "payment.cvvRequired"
	CVVInvalid         = "payment.cvvInvalid"
	InstallmentsLimit  = "payment.installmentsInvalid"
	PaymentDeclined    = "payment.declined"
	PaymentFailed      = "payment.failed"

	CouponInvalid      = "coupon.invalid"
	CouponEmpty        = "coupon.empty"
	CouponMinPurchase  = "coupon.minPurchase"
	CouponLookupFailed = "coupon.lookupFailed"
	CouponDisabled     = "coupon.disabled"

	OrderNotReady      = "order.notReady"
	OrderInFlight      = "order.inFlight"
	OrderCompleted     = "order.completed"
	StepNotNavigable   = "order.stepNotNavigable"
	StepNotCurrent     = "order.stepNotCurrent"
	UnknownStep        = "order.unknownStep"
	InternalError      = "server.internalError"
	Unauthorised       = "auth.unauthorised"
	SessionNotFound    = "session.notFound"
	CartUnavailable    = "cart.unavailable"
	ValidationFailed   = "form.validationFailed"
	UnknownField       = "form.unknownField"
	InvalidRequestBody = "request.invalidBody"
)

var tables = map[Locale]map[string]string{
	PT: {
		FirstNameRequired: "Nome é obrigatório",
		FirstNameMin:      "Nome deve ter pelo menos 2 caracteres",
		LastNameRequired:  "Sobrenome é obrigatório",
		LastNameMin:       "Sobrenome deve ter pelo menos 2 caracteres",
		EmailRequired:     "E-mail é obrigatório",
		EmailInvalid:      "E-mail inválido",
		PhoneRequired:     "Telefone é obrigatório",
		PhoneInvalid:      "Telefone inválido",

		ZipCodeRequired:      "CEP é obrigatório",
		ZipCodeInvalid:       "CEP inválido",
		StreetRequired:       "Rua é obrigatória",
		NumberRequired:       "Número é obrigatório",
		NeighborhoodRequired: "Bairro é obrigatório",
		CityRequired:         "Cidade é obrigatória",
		StateRequired:        "Estado é obrigatório",
		ShippingRequired:     "Selecione uma opção de frete",
		ZipCodeNotFound:      "CEP não encontrado",
		AddressLookupFailed:  "Não foi possível buscar o endereço. Preencha manualmente.",
		ShippingUnavailable:  "Não foi possível calcular o frete",
		ShippingOptionGone:   "Opção de frete indisponível para este CEP",

		MethodUnavailable:  "Forma de pagamento indisponível",
		CardNumberRequired: "Número do cartão é obrigatório",
		CardNumberInvalid:  "Número do cartão inválido",
		CardNameRequired:   "Nome no cartão é obrigatório",
		CardNameMin:        "Nome deve ter pelo menos 3 caracteres",
		ExpiryRequired:     "Validade é obrigatória",
		ExpiryInvalid:      "Use o formato MM/AA",
		ExpiryInvalidMonth: "Mês inválido",
		ExpiryExpired:      "Cartão expirado",
		CVVRequired:        "CVV é obrigatório",
		CVVInvalid:         "CVV inválido",
		InstallmentsLimit:  "Número de parcelas indisponível",
		PaymentDeclined:    "Pagamento recusado. Verifique os dados do cartão.",
		PaymentFailed:      "Erro ao processar pagamento. Tente novamente.",

		CouponInvalid:      "Cupom inválido ou expirado",
		CouponEmpty:        "Informe um cupom",
		CouponMinPurchase:  "Compra mínima de R$ %.2f para este cupom",
		CouponLookupFailed: "Erro ao validar cupom",
		CouponDisabled:     "Cupons não estão disponíveis",

		OrderNotReady:      "Conclua todas as etapas antes de finalizar o pedido",
		OrderInFlight:      "Seu pedido já está sendo processado",
		OrderCompleted:     "Pedido já realizado. Inicie um novo pedido.",
		StepNotNavigable:   "Conclua as etapas anteriores primeiro",
		StepNotCurrent:     "Esta etapa não está aberta no momento",
		UnknownStep:        "Etapa desconhecida",
		InternalError:      "Erro interno. Tente novamente.",
		Unauthorised:       "Acesso não autorizado",
		SessionNotFound:    "Sessão de checkout não encontrada",
		CartUnavailable:    "Não foi possível carregar o carrinho",
		ValidationFailed:   "Verifique os campos destacados",
		UnknownField:       "Campo desconhecido",
		InvalidRequestBody: "Requisição inválida",
	},
	EN: {
		FirstNameRequired: "First name is required",
		FirstNameMin:      "First name must be at least 2 characters",
		LastNameRequired:  "Last name is required",
		LastNameMin:       "Last name must be at least 2 characters",
		EmailRequired:     "Email is required",
		EmailInvalid:      "Invalid email",
		PhoneRequired:     "Phone is required",
		PhoneInvalid:      "Invalid phone number",

		ZipCodeRequired:      "ZIP code is required",
		ZipCodeInvalid:       "Invalid ZIP code",
		StreetRequired:       "Street is required",
		NumberRequired:       "Number is required",
		NeighborhoodRequired: "Neighborhood is required",
		CityRequired:         "City is required",
		StateRequired:        "State is required",
		ShippingRequired:     "Select a shipping option",
		ZipCodeNotFound:      "ZIP code not found",
		AddressLookupFailed:  "Could not look up the address. Please fill it in manually.",
		ShippingUnavailable:  "Could not calculate shipping",
		ShippingOptionGone:   "Shipping option not available for this ZIP code",

		MethodUnavailable:  "Payment method not available",
		CardNumberRequired: "Card number is required",
		CardNumberInvalid:  "Invalid card number",
		CardNameRequired:   "Cardholder name is required",
		CardNameMin:        "Name must be at least 3 characters",
		ExpiryRequired:     "Expiry date is required",
		ExpiryInvalid:      "Use the MM/YY format",
		ExpiryInvalidMonth: "Invalid month",
		ExpiryExpired:      "Card expired",
		CVVRequired:        "CVV is required",
		CVVInvalid:         "Invalid CVV",
		InstallmentsLimit:  "Installment count not available",
		PaymentDeclined:    "Payment declined. Please check your card details.",
		PaymentFailed:      "Error processing payment. Please try again.",

		CouponInvalid:      "Invalid or expired coupon",
		CouponEmpty:        "Enter a coupon code",
		CouponMinPurchase:  "This coupon requires a minimum purchase of R$ %.2f",
		CouponLookupFailed: "Could not validate coupon",
		CouponDisabled:     "Coupons are not available",

		OrderNotReady:      "Complete every step before placing the order",
		OrderInFlight:      "Your order is already being processed",
		OrderCompleted:     "Order already placed. Start a new order.",
		StepNotNavigable:   "Complete the previous steps first",
		StepNotCurrent:     "This step is not open right now",
		UnknownStep:        "Unknown step",
		InternalError:      "Internal error. Please try again.",
		Unauthorised:       "Unauthorized",
		SessionNotFound:    "Checkout session not found",
		CartUnavailable:    "Could not load the cart",
		ValidationFailed:   "Please check the highlighted fields",
		UnknownField:       "Unknown field",
		InvalidRequestBody: "Invalid request",
	},
}
