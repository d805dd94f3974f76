package payment

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"

	apperrors "palm-reader-api/internal/errors"
)

// Fixed product metadata for the one-time premium purchase
const (
	productName        = "Lecture Complète des Lignes de la Main"
	productDescription = "Analyse détaillée Amour, Travail, Santé & Prédictions 12 mois."
	productImage       = "https://liremamain.fr/hand-preview.jpg"
	unitAmountCents    = 299 // 2.99 EUR
)

// KeyResolver yields the payment provider credential at call time
type KeyResolver func() (string, error)

// CheckoutInitiator creates provider-hosted one-time checkout sessions.
// No application-side state is kept per session; the client carries the
// saved image across the redirect. The session identifier appended to the
// success URL is not verified server-side before premium content is
// served again - a known trust gap inherited from the reference flow.
type CheckoutInitiator struct {
	resolveKey KeyResolver
	appBaseURL string
}

// NewCheckoutInitiator creates a checkout initiator. appBaseURL is the
// fallback origin when the request carries no Origin header.
func NewCheckoutInitiator(resolveKey KeyResolver, appBaseURL string) *CheckoutInitiator {
	return &CheckoutInitiator{
		resolveKey: resolveKey,
		appBaseURL: appBaseURL,
	}
}

// CreateSession creates a single fixed-price checkout session and returns
// the provider-hosted redirect URL.
func (p *CheckoutInitiator) CreateSession(ctx context.Context, origin string) (string, error) {
	key, err := p.resolveKey()
	if err != nil {
		return "", err
	}

	successURL, cancelURL := checkoutURLs(origin, p.appBaseURL)

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(productDescription),
						Images:      stripe.StringSlice([]string{productImage}),
					},
					UnitAmount: stripe.Int64(unitAmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}

	sc := &stripeclient.API{}
	sc.Init(key, nil)

	sess, err := sc.CheckoutSessions.New(params)
	if err != nil {
		return "", apperrors.NewProviderError("failed to create checkout session", err)
	}
	return sess.URL, nil
}

// checkoutURLs derives the provider-hosted return URLs from the request
// origin, falling back to the configured application URL.
func checkoutURLs(origin, fallback string) (string, string) {
	base := strings.TrimSpace(origin)
	if base == "" {
		base = fallback
	}
	base = strings.TrimRight(base, "/")
	return base + "/resultat-premium?session_id={CHECKOUT_SESSION_ID}", base + "/"
}
