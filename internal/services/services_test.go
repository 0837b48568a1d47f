package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/models"
	"sink_quoter/internal/quoting"
	"sink_quoter/internal/repository"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	phone []string
	err   error
}

func (f *fakeSender) SendTextMessage(ctx context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phone = append(f.phone, phone)
	f.sent = append(f.sent, message)
	return f.err
}

type fakeCache struct {
	entries     map[string][]models.Product
	hits        int
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]models.Product{}}
}

func (c *fakeCache) GetCandidates(ctx context.Context, companyID uint, bounds string) ([]models.Product, bool, error) {
	p, ok := c.entries[bounds]
	if ok {
		c.hits++
	}
	return p, ok, nil
}

func (c *fakeCache) SetCandidates(ctx context.Context, companyID uint, bounds string, products []models.Product) error {
	c.entries[bounds] = products
	return nil
}

func (c *fakeCache) InvalidateCatalog(ctx context.Context, companyID uint) error {
	c.invalidated++
	c.entries = map[string][]models.Product{}
	return nil
}

type testEnv struct {
	db           *gorm.DB
	scope        Scope
	customer     *models.Customer
	sender       *fakeSender
	cache        *fakeCache
	users        UserService
	customers    CustomerService
	measurements MeasurementService
	products     ProductService
	matches      MatchService
	quotes       *quoteService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:svc_"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	productRepo := repository.NewProductRepository(db)

	env := &testEnv{db: db, sender: &fakeSender{}, cache: newFakeCache()}
	env.users = NewUserService(userRepo)
	env.customers = NewCustomerService(customerRepo)
	env.measurements = NewMeasurementService(measurementRepo, customerRepo)
	env.products = NewProductService(productRepo, env.cache, log)
	env.matches = NewMatchService(measurementRepo, productRepo, env.cache,
		matching.NewMatcher(matching.DefaultThresholds(), matching.DefaultAddOnPricing()), log)
	env.quotes = NewQuoteService(QuoteServiceDeps{
		Quotes:        repository.NewQuoteRepository(db),
		LineItems:     repository.NewLineItemRepository(db),
		Customers:     customerRepo,
		Measurements:  measurementRepo,
		Matches:       env.matches,
		Notifications: NewNotificationService(env.sender),
		Settings:      QuoteSettings{DefaultTaxRate: decimal.Zero, ValidityDays: 30},
		Logger:        log,
	}).(*quoteService)

	ctx := context.Background()
	company := &models.Company{Name: "Acme Sinks"}
	if err := userRepo.CreateCompany(ctx, company); err != nil {
		t.Fatalf("company: %v", err)
	}
	user := &models.User{CompanyID: company.ID, Username: "sam", Email: "sam@example.com"}
	if err := env.users.CreateUser(ctx, user, "secret-pass"); err != nil {
		t.Fatalf("user: %v", err)
	}
	env.scope, err = env.users.ResolveScope(ctx, user.ID)
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	env.customer, err = env.customers.CreateCustomer(ctx, env.scope, CustomerInput{Name: "Pat Doe", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	return env
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func kitchenQuoteInput(customerID uint) CreateQuoteInput {
	rate := dec("0.0825")
	return CreateQuoteInput{
		CustomerID:     customerID,
		TaxRate:        &rate,
		DiscountAmount: dec("50"),
		LineItems: []LineItemInput{
			{Type: models.ItemProduct, Name: "Undermount sink", Quantity: 1, UnitPrice: dec("900")},
			{Type: models.ItemLabor, Name: "Install labor", Quantity: 1, UnitPrice: dec("150")},
			{Type: models.ItemMaterial, Name: "Drain kit", Quantity: 2, UnitPrice: dec("30")},
		},
	}
}

func siteSurveyLine() LineItemInput {
	return LineItemInput{Type: models.ItemOther, Name: "Site survey", Quantity: 1, UnitPrice: dec("75")}
}

func intPtr(v int) *int { return &v }

func TestCreateQuoteTotals(t *testing.T) {
	env := setupEnv(t)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	env.quotes.now = func() time.Time { return fixed }

	q, err := env.quotes.CreateQuote(context.Background(), env.scope, kitchenQuoteInput(env.customer.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := q.Subtotal.StringFixed(2); got != "1110.00" {
		t.Errorf("subtotal = %s", got)
	}
	if got := q.TaxAmount.StringFixed(2); got != "87.45" {
		t.Errorf("tax = %s", got)
	}
	if got := q.Total.StringFixed(2); got != "1147.45" {
		t.Errorf("total = %s", got)
	}
	if q.Status != models.QuoteDraft || q.Version != 1 {
		t.Errorf("new quote should be draft v1, got %s v%d", q.Status, q.Version)
	}
	if !regexp.MustCompile(`^Q-20260310-[0-9A-F]{8}$`).MatchString(q.QuoteNumber) {
		t.Errorf("unexpected quote number %q", q.QuoteNumber)
	}
	if q.ValidUntil == nil || !q.ValidUntil.Equal(fixed.AddDate(0, 0, 30)) {
		t.Errorf("expected default validity of 30 days, got %v", q.ValidUntil)
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	env := setupEnv(t)
	in := kitchenQuoteInput(env.customer.ID)
	bad := dec("1.5")
	in.TaxRate = &bad
	in.LineItems[1].Quantity = 0
	in.LineItems[2].DiscountPercent = dec("120")

	_, err := env.quotes.CreateQuote(context.Background(), env.scope, in)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"tax_rate", "line_items[1].quantity", "line_items[2].discount_percent"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing field %s in %v", field, ve.Fields)
		}
	}
}

func TestCreateQuoteRequiresLineItems(t *testing.T) {
	env := setupEnv(t)
	for name, items := range map[string][]LineItemInput{"nil": nil, "empty": {}} {
		in := kitchenQuoteInput(env.customer.ID)
		in.LineItems = items

		q, err := env.quotes.CreateQuote(context.Background(), env.scope, in)
		var ve *apperr.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v (quote %v)", name, err, q)
		}
		if _, ok := ve.Fields["line_items"]; !ok {
			t.Errorf("%s: missing line_items in %v", name, ve.Fields)
		}
	}

	list, err := env.quotes.ListQuotes(context.Background(), env.scope, repository.QuoteFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected quotes must not be stored, found %d", len(list))
	}
}

func TestCreateQuoteForeignCustomer(t *testing.T) {
	env := setupEnv(t)
	other := Scope{CompanyID: env.scope.CompanyID + 1, UserID: env.scope.UserID}

	_, err := env.quotes.CreateQuote(context.Background(), other, kitchenQuoteInput(env.customer.ID))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStatusLifecycleNotifiesOnSend(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	q, err := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	q, err = env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteSent, intPtr(1))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if q.Version != 2 || q.SentAt == nil {
		t.Errorf("sent quote: version %d sent_at %v", q.Version, q.SentAt)
	}
	if len(env.sender.sent) != 1 || env.sender.phone[0] != "555-0100" {
		t.Fatalf("expected one notification, got %v", env.sender.phone)
	}
	if !strings.Contains(env.sender.sent[0], q.QuoteNumber) || !strings.Contains(env.sender.sent[0], "1147.45") {
		t.Errorf("notification text missing quote details: %q", env.sender.sent[0])
	}

	if q, err = env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteViewed, nil); err != nil {
		t.Fatalf("view: %v", err)
	}
	if q, err = env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteAccepted, intPtr(3)); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if q.Status != models.QuoteAccepted || q.AcceptedAt == nil || q.Version != 4 {
		t.Errorf("accepted quote: status %s accepted_at %v version %d", q.Status, q.AcceptedAt, q.Version)
	}
	if len(env.sender.sent) != 1 {
		t.Errorf("only the send transition should notify")
	}
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	env := setupEnv(t)
	env.sender.err = errors.New("gateway down")
	ctx := context.Background()
	q, _ := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))

	sent, err := env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteSent, nil)
	if err != nil {
		t.Fatalf("send should succeed despite notification failure: %v", err)
	}
	if sent.Status != models.QuoteSent {
		t.Errorf("status = %s", sent.Status)
	}
}

func TestInvalidTransitionLeavesQuoteUnchanged(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	q, _ := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))

	_, err := env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteAccepted, nil)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	stored, _ := env.quotes.GetQuote(ctx, env.scope, q.ID)
	if stored.Status != models.QuoteDraft || stored.Version != 1 {
		t.Errorf("quote changed: %s v%d", stored.Status, stored.Version)
	}

	_, err = env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteStatus("archived"), nil)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestSaveSignature(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	q, _ := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))

	if _, err := env.quotes.SaveSignature(ctx, env.scope, q.ID, "sig", nil); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("draft quote cannot be signed, got %v", err)
	}
	if _, err := env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteSent, nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	signed, err := env.quotes.SaveSignature(ctx, env.scope, q.ID, "data:image/png;base64,AAAA", intPtr(2))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if signed.Status != models.QuoteAccepted || signed.SignedAt == nil || signed.AcceptedAt == nil {
		t.Errorf("signature did not accept the quote: %+v", signed)
	}
	if signed.SignatureData == nil || *signed.SignatureData != "data:image/png;base64,AAAA" {
		t.Errorf("signature not stored")
	}
}

func TestSaveSignatureOnExpiredQuote(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	in := kitchenQuoteInput(env.customer.ID)
	past := time.Now().Add(-24 * time.Hour)
	in.ValidUntil = &past
	q, _ := env.quotes.CreateQuote(ctx, env.scope, in)
	if _, err := env.quotes.UpdateQuoteStatus(ctx, env.scope, q.ID, models.QuoteSent, nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	_, err := env.quotes.SaveSignature(ctx, env.scope, q.ID, "sig", nil)
	if !errors.Is(err, apperr.ErrExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestUpdateQuotePatch(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	q, _ := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))

	updated, err := env.quotes.UpdateQuote(ctx, env.scope, q.ID, intPtr(1), quoting.QuotePatch{
		DiscountAmount: quoting.Some(decimal.Zero),
		Notes:          quoting.Some("revised"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := updated.Total.StringFixed(2); got != "1201.58" {
		t.Errorf("total = %s, want 1201.58", got)
	}
	if updated.Version != 2 || updated.Notes != "revised" {
		t.Errorf("unexpected update result v%d %q", updated.Version, updated.Notes)
	}
	if !updated.TaxRate.Equal(dec("0.0825")) {
		t.Errorf("unset field changed: tax rate %s", updated.TaxRate)
	}

	_, err = env.quotes.UpdateQuote(ctx, env.scope, q.ID, intPtr(1), quoting.QuotePatch{Notes: quoting.Some("stale")})
	var conflict *apperr.VersionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if conflict.CurrentVersion != 2 || conflict.Current.Notes != "revised" {
		t.Errorf("conflict should report the stored quote, got v%d", conflict.CurrentVersion)
	}

	_, err = env.quotes.UpdateQuote(ctx, env.scope, q.ID, nil, quoting.QuotePatch{TaxRate: quoting.Some(dec("-0.1"))})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for negative tax rate, got %v", err)
	}
	if _, err := env.quotes.UpdateQuote(ctx, env.scope, q.ID, nil, quoting.QuotePatch{}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for empty patch, got %v", err)
	}
}

func TestLineItemOperations(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	q, _ := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))

	q, err := env.quotes.AddLineItem(ctx, env.scope, q.ID, LineItemInput{
		Type: models.ItemOther, Name: "Haul away", Quantity: 1, UnitPrice: dec("100"), DiscountPercent: dec("10"),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := q.Subtotal.StringFixed(2); got != "1200.00" {
		t.Errorf("subtotal = %s", got)
	}
	if q.Version != 1 {
		t.Errorf("line item changes should not bump the version, got %d", q.Version)
	}
	added := q.LineItems[len(q.LineItems)-1]

	qty := 3
	q, err = env.quotes.UpdateLineItem(ctx, env.scope, q.ID, added.ID, LineItemPatch{Quantity: &qty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := q.Subtotal.StringFixed(2); got != "1380.00" {
		t.Errorf("subtotal after update = %s", got)
	}

	neg := dec("-5")
	if _, err := env.quotes.UpdateLineItem(ctx, env.scope, q.ID, added.ID, LineItemPatch{UnitPrice: &neg}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	q, err = env.quotes.DeleteLineItem(ctx, env.scope, q.ID, added.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := q.Total.StringFixed(2); got != "1147.45" {
		t.Errorf("total after delete = %s", got)
	}
}

func seedProduct(t *testing.T, env *testEnv, in ProductInput) *models.Product {
	t.Helper()
	p, err := env.products.CreateProduct(context.Background(), env.scope, in)
	if err != nil {
		t.Fatalf("product %s: %v", in.SKU, err)
	}
	return p
}

func undermount(sku string, width float64) ProductInput {
	return ProductInput{
		SKU: sku, Name: "Sink " + sku, Width: width, Depth: 20, Height: 10,
		MountingStyle: models.MountUndermount, Price: dec("450"), LaborCost: dec("150"),
	}
}

func seedMeasurement(t *testing.T, env *testEnv, in MeasurementInput) *models.Measurement {
	t.Helper()
	in.CustomerID = env.customer.ID
	m, err := env.measurements.CreateMeasurement(context.Background(), env.scope, in)
	if err != nil {
		t.Fatalf("measurement: %v", err)
	}
	return m
}

func TestAddMatchToQuote(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	castIron := models.SinkMaterialCastIron
	questionable := models.IntegrityQuestionable
	m := seedMeasurement(t, env, MeasurementInput{
		CabinetWidth: 36, CabinetDepth: 24, CabinetHeight: 34.5,
		ExistingSinkMaterial: &castIron, CabinetIntegrity: &questionable,
	})
	p := seedProduct(t, env, undermount("UM-3020", 30))
	wide := seedProduct(t, env, undermount("UM-4020", 40))

	q, err := env.quotes.CreateQuote(ctx, env.scope, CreateQuoteInput{
		CustomerID:    env.customer.ID,
		MeasurementID: &m.ID,
		LineItems:     []LineItemInput{siteSurveyLine()},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	q, res, err := env.quotes.AddMatchToQuote(ctx, env.scope, q.ID, p.ID, AddMatchInput{})
	if err != nil {
		t.Fatalf("add match: %v", err)
	}
	if res.FitRating == matching.FitNoGo {
		t.Fatalf("expected a usable match")
	}
	if len(q.LineItems) != 5 {
		t.Fatalf("expected survey, product, labor and two add-ons, got %d items", len(q.LineItems))
	}
	// 75 + 450 + 150 + 150 + 125
	if got := q.Subtotal.StringFixed(2); got != "950.00" {
		t.Errorf("subtotal = %s", got)
	}

	_, res, err = env.quotes.AddMatchToQuote(ctx, env.scope, q.ID, wide.ID, AddMatchInput{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected no_go product to be refused, got %v", err)
	}
	if res == nil || len(res.HardGateFailures) == 0 {
		t.Errorf("refusal should carry the match diagnostics")
	}
}

func TestAddMatchRequiresMeasurement(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	p := seedProduct(t, env, undermount("UM-3020", 30))
	q, err := env.quotes.CreateQuote(ctx, env.scope, CreateQuoteInput{
		CustomerID: env.customer.ID,
		LineItems:  []LineItemInput{siteSurveyLine()},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err = env.quotes.AddMatchToQuote(ctx, env.scope, q.ID, p.ID, AddMatchInput{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExpireStale(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-48 * time.Hour)

	in := kitchenQuoteInput(env.customer.ID)
	in.ValidUntil = &past
	stale, _ := env.quotes.CreateQuote(ctx, env.scope, in)
	if _, err := env.quotes.UpdateQuoteStatus(ctx, env.scope, stale.ID, models.QuoteSent, nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	fresh, _ := env.quotes.CreateQuote(ctx, env.scope, kitchenQuoteInput(env.customer.ID))
	if _, err := env.quotes.UpdateQuoteStatus(ctx, env.scope, fresh.ID, models.QuoteSent, nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	n, err := env.quotes.ExpireStale(ctx)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired quote, got %d", n)
	}
	got, _ := env.quotes.GetQuote(ctx, env.scope, stale.ID)
	if got.Status != models.QuoteExpired || got.ExpiredAt == nil {
		t.Errorf("stale quote not expired: %s", got.Status)
	}
	got, _ = env.quotes.GetQuote(ctx, env.scope, fresh.ID)
	if got.Status != models.QuoteSent {
		t.Errorf("fresh quote changed: %s", got.Status)
	}
}

func TestMatchServiceUsesCatalogCache(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	m := seedMeasurement(t, env, MeasurementInput{CabinetWidth: 36, CabinetDepth: 24, CabinetHeight: 34.5})
	seedProduct(t, env, undermount("UM-3020", 30))
	seedProduct(t, env, undermount("UM-3320", 33))

	results, err := env.matches.MatchProductsToMeasurement(ctx, env.scope, m.ID, matching.Preferences{}, 0)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if env.cache.hits != 0 {
		t.Errorf("first lookup should miss the cache")
	}
	if _, err := env.matches.MatchProductsToMeasurement(ctx, env.scope, m.ID, matching.Preferences{}, 0); err != nil {
		t.Fatalf("match: %v", err)
	}
	if env.cache.hits != 1 {
		t.Errorf("second lookup should hit the cache, hits=%d", env.cache.hits)
	}

	seedProduct(t, env, undermount("UM-2820", 28))
	results, _ = env.matches.MatchProductsToMeasurement(ctx, env.scope, m.ID, matching.Preferences{}, 0)
	if len(results) != 3 {
		t.Errorf("catalog change should invalidate the cache, got %d results", len(results))
	}
}

func TestProductSKUUniquePerCompany(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	seedProduct(t, env, undermount("UM-3020", 30))

	_, err := env.products.CreateProduct(ctx, env.scope, undermount("UM-3020", 32))
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Fields["sku"] != "unique" {
		t.Fatalf("expected sku uniqueness error, got %v", err)
	}

	other := Scope{CompanyID: env.scope.CompanyID + 1, UserID: env.scope.UserID}
	if _, err := env.products.CreateProduct(ctx, other, undermount("UM-3020", 30)); err != nil {
		t.Errorf("same sku in another company should be allowed: %v", err)
	}

	bad := undermount("", 30)
	bad.MountingStyle = "wall_hung"
	bad.Price = dec("-1")
	_, err = env.products.CreateProduct(ctx, env.scope, bad)
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"sku", "mounting_style", "price"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing %s in %v", field, ve.Fields)
		}
	}
}

func TestUserPasswordAndScope(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user, err := env.users.GetUserByUsername(ctx, "sam")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.PasswordHash == "secret-pass" || !env.users.CheckPassword(user, "secret-pass") {
		t.Errorf("password should be stored as a bcrypt hash")
	}
	if env.users.CheckPassword(user, "wrong") {
		t.Errorf("wrong password accepted")
	}
	if user.Role != string(models.Salesperson) {
		t.Errorf("default role = %s", user.Role)
	}
	if _, err := env.users.ResolveScope(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}
	if err := env.users.CreateUser(ctx, &models.User{Username: "x", Email: "x@example.com"}, "short"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected short password to be rejected, got %v", err)
	}
}
