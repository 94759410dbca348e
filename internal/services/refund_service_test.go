package services

import (
	"context"
	"errors"
	"testing"
)

// finalizedRefCode drives a cart through checkout and returns the ref code.
func finalizedRefCode(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, userID, "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	finalized, err := env.checkout.Finalize(ctx, validFinalize(userID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return finalized.Order.RefCode
}

func TestRequestRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	refCode := finalizedRefCode(t, env, "u1")

	refund, err := env.refund.RequestRefund(ctx, RequestRefundCommand{
		RefCode: refCode,
		Reason:  "arrived damaged",
		Email:   "shopper@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refund.ID == "" || refund.Accepted {
		t.Fatalf("unexpected refund: %+v", refund)
	}
	if !refund.CreatedAt.Equal(env.now) {
		t.Fatalf("expected created at %v, got %v", env.now, refund.CreatedAt)
	}

	order, err := env.store.Orders().FindByRefCode(ctx, refCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.RefundRequested || order.RefundGranted {
		t.Fatalf("unexpected order flags: %+v", order)
	}
}

func TestRequestRefundTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	refCode := finalizedRefCode(t, env, "u1")

	cmd := RequestRefundCommand{RefCode: refCode, Reason: "late", Email: "shopper@example.com"}
	if _, err := env.refund.RequestRefund(ctx, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.refund.RequestRefund(ctx, cmd); !errors.Is(err, ErrRefundAlreadyProcessed) {
		t.Fatalf("expected ErrRefundAlreadyProcessed, got %v", err)
	}
}

func TestRequestRefundValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.refund.RequestRefund(ctx, RequestRefundCommand{RefCode: "X", Reason: " ", Email: "a@b.c"}); !errors.Is(err, ErrRefundInvalidInput) {
		t.Fatalf("expected ErrRefundInvalidInput, got %v", err)
	}
	if _, err := env.refund.RequestRefund(ctx, RequestRefundCommand{RefCode: "X", Reason: "late", Email: ""}); !errors.Is(err, ErrRefundInvalidInput) {
		t.Fatalf("expected ErrRefundInvalidInput, got %v", err)
	}
	if _, err := env.refund.RequestRefund(ctx, RequestRefundCommand{RefCode: "UNKNOWN", Reason: "late", Email: "a@b.c"}); !errors.Is(err, ErrRefundOrderNotFound) {
		t.Fatalf("expected ErrRefundOrderNotFound, got %v", err)
	}
}

func TestRequestRefundRejectsOpenOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.cart.AddToCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd := RequestRefundCommand{RefCode: view.RefCode, Reason: "changed my mind", Email: "a@b.c"}
	if _, err := env.refund.RequestRefund(ctx, cmd); !errors.Is(err, ErrRefundOrderNotFound) {
		t.Fatalf("expected ErrRefundOrderNotFound for open order, got %v", err)
	}
}

func TestAcceptRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	refCode := finalizedRefCode(t, env, "u1")

	if _, err := env.refund.AcceptRefund(ctx, refCode); !errors.Is(err, ErrRefundNotRequested) {
		t.Fatalf("expected ErrRefundNotRequested, got %v", err)
	}

	if _, err := env.refund.RequestRefund(ctx, RequestRefundCommand{RefCode: refCode, Reason: "late", Email: "a@b.c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refund, err := env.refund.AcceptRefund(ctx, refCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !refund.Accepted {
		t.Fatalf("expected accepted refund")
	}

	order, err := env.store.Orders().FindByRefCode(ctx, refCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.RefundGranted || !order.RefundRequested {
		t.Fatalf("expected granted flags, got %+v", order)
	}

	// Granted orders accept neither a second grant nor a new request.
	if _, err := env.refund.AcceptRefund(ctx, refCode); !errors.Is(err, ErrRefundAlreadyProcessed) {
		t.Fatalf("expected ErrRefundAlreadyProcessed, got %v", err)
	}
	if _, err := env.refund.RequestRefund(ctx, RequestRefundCommand{RefCode: refCode, Reason: "again", Email: "a@b.c"}); !errors.Is(err, ErrRefundAlreadyProcessed) {
		t.Fatalf("expected ErrRefundAlreadyProcessed, got %v", err)
	}
}
