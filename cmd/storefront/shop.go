package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smarttech/storefront/internal/cart"
	"github.com/smarttech/storefront/internal/checkout"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/apiclient"
)

const (
	msgOrderPlaced = "Order placed successfully! You will receive a confirmation email shortly."
	msgOrderFailed = "Failed to place order. Please try again."
	msgAddedToCart = "Product added to cart!"
)

func cmdProducts(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "products")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	products, err := a.api.Products(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(products)
	}
	if len(products) == 0 {
		fmt.Fprintln(a.stdout, "No products available")
		return nil
	}
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		printProduct(a.stdout, p)
	}
	return nil
}

func cmdProduct(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "product")
	id := fs.Int64("id", 0, "product id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("product requires -id")
	}
	p, err := a.api.Product(ctx, *id)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(p)
	}
	printProduct(a.stdout, p)
	return nil
}

func cmdCart(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return usageError("cart requires one of show|add|update|remove|clear")
	}
	sub, rest := args[0], args[1:]
	fs := newFlags(a, "cart "+sub)
	id := fs.Int64("id", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := parseFlags(fs, rest); err != nil {
		return err
	}

	var (
		state cart.State
		err   error
	)
	switch sub {
	case "show":
		state = a.cart.Get(ctx)
	case "add":
		if *id <= 0 {
			return usageError("cart add requires -id")
		}
		if *qty <= 0 {
			return usageError("cart add requires -qty > 0")
		}
		// the cart keeps a snapshot of the product as it was when added
		product, perr := a.api.Product(ctx, *id)
		if perr != nil {
			return perr
		}
		state, err = a.cart.Add(ctx, &product, *qty)
		if err == nil && !a.asJSON {
			fmt.Fprintln(a.stdout, msgAddedToCart)
		}
	case "update":
		if *id <= 0 {
			return usageError("cart update requires -id")
		}
		state, err = a.cart.Update(ctx, *id, *qty)
	case "remove":
		if *id <= 0 {
			return usageError("cart remove requires -id")
		}
		state, err = a.cart.Remove(ctx, *id)
	case "clear":
		err = a.cart.Clear(ctx)
	default:
		return usageError("unknown cart command %q", sub)
	}
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(state)
	}
	printCart(a.stdout, state)
	return nil
}

func cmdCheckout(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "checkout")
	var form checkout.Form
	fs.StringVar(&form.FullName, "name", "", "full name")
	fs.StringVar(&form.Email, "email", "", "email address")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.Address, "address", "", "billing address")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.Country, "country", "", "country")
	fs.StringVar(&form.SpecialRequirements, "requirements", "", "special requirements")
	fs.StringVar(&form.DeliveryAddress, "delivery", "", "delivery address (defaults to -address)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	result, err := a.checkout.Submit(ctx, form)
	if err != nil {
		return a.checkoutFailed(err)
	}
	if a.asJSON {
		return a.writeJSON(result)
	}
	fmt.Fprintln(a.stdout, msgOrderPlaced)
	for _, o := range result.Orders {
		fmt.Fprintf(a.stdout, "  order #%d: product %d x%d, %s\n", o.ID, o.ProductID, o.Quantity, price(o.TotalPrice))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(a.stdout, "  %d item(s) were already ordered on an earlier try\n", len(result.Skipped))
	}
	return nil
}

func (a *app) checkoutFailed(err error) error {
	if errors.Is(err, checkout.ErrEmptyCart) {
		return err
	}
	var partial *checkout.PartialError
	if errors.As(err, &partial) {
		fmt.Fprintln(a.stderr, msgOrderFailed)
		for _, o := range partial.Created {
			fmt.Fprintf(a.stderr, "  order #%d for product %d was placed\n", o.ID, o.ProductID)
		}
		fmt.Fprintf(a.stderr, "  product %d was not ordered: %s\n", partial.FailedProductID, userMessage(partial.Err))
		if len(partial.Unrecorded) > 0 {
			fmt.Fprintf(a.stderr, "  warning: progress for product(s) %s could not be saved; running checkout again may order them twice\n",
				joinIDs(partial.Unrecorded))
			return errReported
		}
		fmt.Fprintln(a.stderr, "  run checkout again with the same details to order the remaining items")
		return errReported
	}
	if _, ok := apiclient.AsError(err); ok {
		fmt.Fprintln(a.stderr, msgOrderFailed)
		fmt.Fprintln(a.stderr, "  "+userMessage(err))
		return errReported
	}
	// local validation: show the field problems
	return err
}

func cmdCheckoutStatus(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "checkout-status")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	j, err := a.checkout.Pending(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(j)
	}
	if j == nil {
		fmt.Fprintln(a.stdout, "No unfinished checkout")
		return nil
	}
	fmt.Fprintf(a.stdout, "Unfinished checkout %s started %s\n", j.AttemptID, j.StartedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.stdout, "  %d order(s) already placed\n", len(j.Created))
	return nil
}

func cmdCheckoutAbandon(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "checkout-abandon")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.checkout.Abandon(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Unfinished checkout forgotten")
	return nil
}

func cmdChat(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "chat")
	message := fs.String("message", "", "message to send")
	session := fs.String("session", "", "session id from an earlier reply")
	lang := fs.String("lang", "", "reply language (default en)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*message) == "" {
		return usageError("chat requires -message")
	}
	reply, err := a.api.SendChat(ctx, storefront.ChatMessageCreate{
		Message:   *message,
		SessionID: *session,
		Language:  *lang,
	})
	if err != nil {
		a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "chat.send_failed")
		fmt.Fprintln(a.stdout, storefront.ChatFallbackMessage(err))
		return errReported
	}
	if a.asJSON {
		return a.writeJSON(reply)
	}
	fmt.Fprintln(a.stdout, reply.Response)
	fmt.Fprintf(a.stderr, "session: %s\n", reply.SessionID)
	return nil
}

func cmdChatHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "chat-history")
	session := fs.String("session", "", "session id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*session) == "" {
		return usageError("chat-history requires -session")
	}
	history, err := a.api.ChatHistory(ctx, *session)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(history)
	}
	for _, m := range history {
		fmt.Fprintf(a.stdout, "[%s] you: %s\n", m.Timestamp, m.Message)
		if m.Response != nil {
			fmt.Fprintf(a.stdout, "[%s] assistant: %s\n", m.Timestamp, *m.Response)
		}
	}
	return nil
}

func cmdHealth(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "health")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	h, err := a.api.Health(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(h)
	}
	fmt.Fprintf(a.stdout, "%s: %s\n", h.Service, h.Status)
	return nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
