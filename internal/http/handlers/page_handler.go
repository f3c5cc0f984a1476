package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"atelier/internal/content"
	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/pricing"
	"atelier/internal/validate"
)

// PageHandler serves the informational pages, the FAQ and the contact,
// newsletter and gift card forms. Form submissions are logged, not stored.
type PageHandler struct {
	Pages *content.Library
}

const pageGone = "We couldn't find that page"

func (h *PageHandler) Page(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "page"})
		return notFound(c, pageGone, "/", "Back to home")
	}
	return h.show(c, slug)
}

// Alias serves one page under a short path such as /about.
func (h *PageHandler) Alias(slug string) fiber.Handler {
	return func(c *fiber.Ctx) error { return h.show(c, slug) }
}

func (h *PageHandler) show(c *fiber.Ctx, slug string) error {
	p, err := h.Pages.Page(slug)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, pageGone, "/", "Back to home")
	}
	if err != nil {
		return serverError(c, "page.load.fail", err, "Could not load this page. Please retry.")
	}
	return render(c, "page", fiber.Map{"Page": p})
}

func (h *PageHandler) FAQ(c *fiber.Ctx) error {
	cat := currentCatalog(c)
	if cat == nil {
		return serverError(c, "faq.load.fail", errors.New("no catalog"), "Could not load the FAQ. Please retry.")
	}
	topic, _ := validate.Slug(c.Query("topic"))
	active, _ := cat.FAQCategory(topic)
	return render(c, "faq", fiber.Map{"Topics": cat.FAQ, "Active": active})
}

func (h *PageHandler) ContactForm(c *fiber.Ctx) error {
	return h.contact(c, fiber.Map{})
}

func (h *PageHandler) contact(c *fiber.Ctx, data fiber.Map) error {
	if p, err := h.Pages.Page("contact"); err == nil {
		data["Page"] = p
	}
	return render(c, "contact", data)
}

func (h *PageHandler) Contact(c *fiber.Ctx) error {
	_, okName := validate.Name(c.FormValue("name"))
	email, okEmail := validate.Email(c.FormValue("email"))
	msg, okMsg := validate.Text(c.FormValue("message"), 2000)
	if !okName || !okEmail || !okMsg {
		applog.Security(c, "validation.fail", map[string]any{"field": "contact"})
		c.Status(fiber.StatusBadRequest)
		return h.contact(c, fiber.Map{
			"Err":   "Please enter your name, a valid email and a message.",
			"Name":  c.FormValue("name"),
			"Email": c.FormValue("email"),
			"Body":  c.FormValue("message"),
		})
	}
	applog.Audit(c, "contact.submit", map[string]any{"email": applog.RedactEmail(email), "length": len(msg)})
	return notice(c, "Thank you", "Your message is on its way. Our client services team replies within two business days.")
}

func (h *PageHandler) Newsletter(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return render(c.Status(fiber.StatusBadRequest), "notice", fiber.Map{
			"Title":   "Check your email",
			"Message": "Please enter a valid email address to subscribe.",
		})
	}
	applog.Audit(c, "newsletter.subscribe", map[string]any{"email": applog.RedactEmail(email)})
	return notice(c, "You're on the list", "Welcome to ATELIER. Look out for new collections and private events in your inbox.")
}

const defaultGiftAmount = 100

func (h *PageHandler) GiftCardForm(c *fiber.Ctx) error {
	return h.giftCards(c, fiber.Map{"Amount": defaultGiftAmount})
}

func (h *PageHandler) giftCards(c *fiber.Ctx, data fiber.Map) error {
	cat := currentCatalog(c)
	if cat == nil {
		return serverError(c, "giftcards.load.fail", errors.New("no catalog"), "Could not load gift cards. Please retry.")
	}
	cards := cat.GiftCards
	if _, ok := data["Design"]; !ok && len(cards.Designs) > 0 {
		data["Design"] = cards.Designs[0].ID
	}
	data["Cards"] = cards
	return render(c, "gift_cards", data)
}

// GiftCard validates a gift card request and confirms it. Nothing is
// charged or sent.
func (h *PageHandler) GiftCard(c *fiber.Ctx) error {
	cat := currentCatalog(c)
	if cat == nil {
		return serverError(c, "giftcards.load.fail", errors.New("no catalog"), "Could not load gift cards. Please retry.")
	}
	amount, okAmount := validate.OneOf(c.FormValue("amount"), cat.GiftCards.Amounts)
	design, okDesign := cat.GiftCards.Design(c.FormValue("design"))
	_, okName := validate.Name(c.FormValue("recipientName"))
	email, okEmail := validate.Email(c.FormValue("recipientEmail"))
	msg, okMsg := validate.OptionalText(c.FormValue("message"), 500)
	if !okAmount || !okDesign || !okName || !okEmail || !okMsg {
		applog.Security(c, "validation.fail", map[string]any{"field": "gift_card"})
		c.Status(fiber.StatusBadRequest)
		data := fiber.Map{
			"Err":     "Please choose an amount and a design, and enter the recipient's name and a valid email.",
			"Amount":  defaultGiftAmount,
			"Name":    c.FormValue("recipientName"),
			"Email":   c.FormValue("recipientEmail"),
			"Message": c.FormValue("message"),
		}
		if okAmount {
			data["Amount"] = amount
		}
		if okDesign {
			data["Design"] = design.ID
		}
		return h.giftCards(c, data)
	}
	applog.Audit(c, "giftcard.request", map[string]any{
		"amount":    amount,
		"design":    design.ID,
		"recipient": applog.RedactEmail(email),
		"length":    len(msg),
	})
	return notice(c, "Your gift card is on its way",
		fmt.Sprintf("A %s %s gift card will be delivered to the recipient's inbox within minutes. Gift cards never expire.",
			pricing.Format(decimal.NewFromInt(int64(amount))), design.Name))
}
