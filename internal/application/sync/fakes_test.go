package sync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// ---------------------------------------------------------------------------
// In-memory test doubles for every Work port.
// ---------------------------------------------------------------------------

type fakeBinder struct {
	toLocal  map[connector.ExternalID]*connector.Binding
	toRemote map[uuid.UUID]connector.ExternalID
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{
		toLocal:  map[connector.ExternalID]*connector.Binding{},
		toRemote: map[uuid.UUID]connector.ExternalID{},
	}
}

func (b *fakeBinder) ToInternal(_ context.Context, externalID connector.ExternalID) (*connector.Binding, error) {
	if bd, ok := b.toLocal[externalID]; ok {
		return bd, nil
	}
	return nil, connector.ErrNotBound
}

func (b *fakeBinder) ToExternal(_ context.Context, localID uuid.UUID) (connector.ExternalID, error) {
	if ext, ok := b.toRemote[localID]; ok {
		return ext, nil
	}
	return "", connector.ErrNotBound
}

func (b *fakeBinder) Bind(_ context.Context, externalID connector.ExternalID, localID uuid.UUID) error {
	if existing, ok := b.toLocal[externalID]; ok {
		if existing.LocalID != localID {
			return connector.ErrBindingConflict
		}
		existing.LastSyncAt = time.Now()
		return nil
	}
	if _, ok := b.toRemote[localID]; ok {
		return connector.ErrBindingConflict
	}
	b.seed(externalID, localID, time.Now())
	return nil
}

// seed installs a binding with a chosen sync timestamp.
func (b *fakeBinder) seed(externalID connector.ExternalID, localID uuid.UUID, syncedAt time.Time) {
	b.toLocal[externalID] = &connector.Binding{
		ID:         uuid.New(),
		ExternalID: externalID,
		LocalID:    localID,
		LastSyncAt: syncedAt,
	}
	b.toRemote[localID] = externalID
}

type fakeBinderRegistry struct {
	binders map[connector.EntityType]*fakeBinder
}

func newFakeBinderRegistry() *fakeBinderRegistry {
	return &fakeBinderRegistry{binders: map[connector.EntityType]*fakeBinder{}}
}

func (r *fakeBinderRegistry) BinderFor(t connector.EntityType) connector.Binder {
	return r.binder(t)
}

func (r *fakeBinderRegistry) binder(t connector.EntityType) *fakeBinder {
	b, ok := r.binders[t]
	if !ok {
		b = newFakeBinder()
		r.binders[t] = b
	}
	return b
}

// ---------------------------------------------------------------------------

type fakeAdapter struct {
	records  map[connector.ExternalID]connector.RawRecord
	pages    [][]connector.ExternalID
	searches []connector.Params
	updates  map[connector.ExternalID]map[string]any
	readErr  map[connector.ExternalID]error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		records: map[connector.ExternalID]connector.RawRecord{},
		updates: map[connector.ExternalID]map[string]any{},
		readErr: map[connector.ExternalID]error{},
	}
}

func (a *fakeAdapter) Search(_ context.Context, params connector.Params) ([]connector.ExternalID, error) {
	a.searches = append(a.searches, params.Clone())
	page, _ := strconv.Atoi(params["page"])
	if page < 1 || page > len(a.pages) {
		return nil, nil
	}
	return a.pages[page-1], nil
}

func (a *fakeAdapter) Read(_ context.Context, id connector.ExternalID, _ connector.Params) (connector.RawRecord, error) {
	if err, ok := a.readErr[id]; ok {
		return nil, err
	}
	rec, ok := a.records[id]
	if !ok {
		return nil, connector.ErrNoSuchRecord
	}
	return rec, nil
}

func (a *fakeAdapter) SearchRead(ctx context.Context, params connector.Params) ([]connector.RawRecord, error) {
	ids, err := a.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]connector.RawRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := a.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (a *fakeAdapter) Create(_ context.Context, data map[string]any) (connector.RawRecord, error) {
	return connector.RawRecord(data), nil
}

func (a *fakeAdapter) Update(_ context.Context, id connector.ExternalID, data map[string]any) (connector.RawRecord, error) {
	a.updates[id] = data
	return connector.RawRecord(data), nil
}

func (a *fakeAdapter) Delete(_ context.Context, id connector.ExternalID) error {
	delete(a.records, id)
	return nil
}

type fakeAdapterRegistry struct {
	byType map[connector.EntityType]*fakeAdapter
	nested map[string]*fakeAdapter
}

func newFakeAdapterRegistry() *fakeAdapterRegistry {
	return &fakeAdapterRegistry{
		byType: map[connector.EntityType]*fakeAdapter{},
		nested: map[string]*fakeAdapter{},
	}
}

func (r *fakeAdapterRegistry) AdapterFor(t connector.EntityType) connector.RemoteAdapter {
	return r.adapter(t)
}

func (r *fakeAdapterRegistry) NestedAdapterFor(t connector.EntityType, parentID connector.ExternalID) connector.RemoteAdapter {
	return r.nestedAdapter(t, parentID)
}

func (r *fakeAdapterRegistry) adapter(t connector.EntityType) *fakeAdapter {
	a, ok := r.byType[t]
	if !ok {
		a = newFakeAdapter()
		r.byType[t] = a
	}
	return a
}

func (r *fakeAdapterRegistry) nestedAdapter(t connector.EntityType, parentID connector.ExternalID) *fakeAdapter {
	key := string(t) + "/" + parentID.String()
	a, ok := r.nested[key]
	if !ok {
		a = newFakeAdapter()
		r.nested[key] = a
	}
	return a
}

// ---------------------------------------------------------------------------

type fakeQueue struct {
	reqs []connector.JobRequest
}

func (q *fakeQueue) Enqueue(_ context.Context, req connector.JobRequest) (uuid.UUID, error) {
	q.reqs = append(q.reqs, req)
	return uuid.New(), nil
}

func (q *fakeQueue) ofType(jobType string) []connector.JobRequest {
	var out []connector.JobRequest
	for _, req := range q.reqs {
		if req.Type == jobType {
			out = append(out, req)
		}
	}
	return out
}

// ---------------------------------------------------------------------------

type fakeLocker struct {
	busy     map[string]bool
	acquired []string
	released []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{busy: map[string]bool{}}
}

func (l *fakeLocker) TryAcquire(_ context.Context, name string) (connector.LockHandle, error) {
	if l.busy[name] {
		return nil, connector.ErrLockBusy
	}
	l.acquired = append(l.acquired, name)
	return &fakeLockHandle{locker: l, name: name}, nil
}

type fakeLockHandle struct {
	locker *fakeLocker
	name   string
}

func (h *fakeLockHandle) Release(_ context.Context) error {
	h.locker.released = append(h.locker.released, h.name)
	return nil
}

// ---------------------------------------------------------------------------

type fakeImages struct {
	data map[string][]byte
	errs map[string]error
}

func newFakeImages() *fakeImages {
	return &fakeImages{data: map[string][]byte{}, errs: map[string]error{}}
}

func (f *fakeImages) Fetch(_ context.Context, url string) ([]byte, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if data, ok := f.data[url]; ok {
		return data, nil
	}
	return nil, connector.ErrNoSuchRecord
}

// ---------------------------------------------------------------------------
// In-memory store registry
// ---------------------------------------------------------------------------

type fakeUpserter struct {
	rows      map[uuid.UUID]connector.Values
	createErr error
}

func newFakeUpserter() *fakeUpserter {
	return &fakeUpserter{rows: map[uuid.UUID]connector.Values{}}
}

func (u *fakeUpserter) CreateFromValues(_ context.Context, vals connector.Values) (uuid.UUID, error) {
	if u.createErr != nil {
		return uuid.Nil, u.createErr
	}
	id := uuid.New()
	row := connector.Values{}
	row.Merge(vals)
	u.rows[id] = row
	return id, nil
}

func (u *fakeUpserter) UpdateFromValues(_ context.Context, id uuid.UUID, vals connector.Values) error {
	row, ok := u.rows[id]
	if !ok {
		row = connector.Values{}
		u.rows[id] = row
	}
	row.Merge(vals)
	return nil
}

type fakeCategoryStore struct {
	*fakeUpserter
}

func (s *fakeCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*store.Category, error) {
	if _, ok := s.rows[id]; !ok {
		return nil, store.ErrCategoryNotFound
	}
	return &store.Category{ID: id, Name: s.rows[id].Str("name")}, nil
}

type fakeProductStore struct {
	*fakeUpserter
	byID     map[uuid.UUID]*store.Product
	bySKU    map[string]*store.Product
	images   map[uuid.UUID][]byte
	exported map[uuid.UUID]decimal.Decimal
	lines    []store.AttributeLine
}

func (s *fakeProductStore) FindByID(_ context.Context, id uuid.UUID) (*store.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, store.ErrProductNotFound
}

func (s *fakeProductStore) FindBySKU(_ context.Context, sku string) (*store.Product, error) {
	if p, ok := s.bySKU[sku]; ok {
		return p, nil
	}
	return nil, store.ErrProductNotFound
}

func (s *fakeProductStore) SaveImage(_ context.Context, id uuid.UUID, image []byte) error {
	s.images[id] = image
	return nil
}

func (s *fakeProductStore) SetAttributeLine(_ context.Context, line store.AttributeLine) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *fakeProductStore) MarkExported(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	s.exported[id] = qty
	return nil
}

type fakeVariantStore struct {
	*fakeUpserter
	byID        map[uuid.UUID]*store.Variant
	deactivated []uuid.UUID
}

func (s *fakeVariantStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	id, err := s.fakeUpserter.CreateFromValues(ctx, vals)
	if err != nil {
		return uuid.Nil, err
	}
	variant := &store.Variant{ID: id, SKU: s.rows[id].Str("sku")}
	if tmpl, ok := s.rows[id]["template_id"].(uuid.UUID); ok {
		variant.TemplateID = tmpl
	}
	if active, ok := s.rows[id]["active"].(bool); ok {
		variant.Active = active
	}
	if terms, ok := s.rows[id]["term_ids"].([]uuid.UUID); ok {
		variant.TermIDs = terms
	}
	s.byID[id] = variant
	return id, nil
}

func (s *fakeVariantStore) FindByID(_ context.Context, id uuid.UUID) (*store.Variant, error) {
	if v, ok := s.byID[id]; ok {
		return v, nil
	}
	return nil, store.ErrVariantNotFound
}

func (s *fakeVariantStore) VariantsOf(_ context.Context, templateID uuid.UUID) ([]store.Variant, error) {
	var out []store.Variant
	for _, v := range s.byID {
		if v.TemplateID == templateID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *fakeVariantStore) Deactivate(_ context.Context, id uuid.UUID) error {
	s.deactivated = append(s.deactivated, id)
	if v, ok := s.byID[id]; ok {
		v.Active = false
	}
	return nil
}

type fakeAttributeStore struct {
	*fakeUpserter
	byName map[string]*store.Attribute
}

func (s *fakeAttributeStore) FindByName(_ context.Context, name string) (*store.Attribute, error) {
	if a, ok := s.byName[name]; ok {
		return a, nil
	}
	return nil, store.ErrAttributeNotFound
}

type fakeTermStore struct {
	*fakeUpserter
	byName map[string]*store.AttributeTerm
}

func termKey(attributeID uuid.UUID, name string) string {
	return fmt.Sprintf("%s/%s", attributeID, name)
}

func (s *fakeTermStore) FindByName(_ context.Context, attributeID uuid.UUID, name string) (*store.AttributeTerm, error) {
	if term, ok := s.byName[termKey(attributeID, name)]; ok {
		return term, nil
	}
	return nil, store.ErrTermNotFound
}

type fakeCustomerStore struct {
	*fakeUpserter
	byID      map[uuid.UUID]*store.Customer
	byEmail   map[string]*store.Customer
	addresses []*store.Address
}

func (s *fakeCustomerStore) FindByID(_ context.Context, id uuid.UUID) (*store.Customer, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, store.ErrCustomerNotFound
}

func (s *fakeCustomerStore) FindByEmail(_ context.Context, email string) (*store.Customer, error) {
	if c, ok := s.byEmail[email]; ok {
		return c, nil
	}
	return nil, store.ErrCustomerNotFound
}

func (s *fakeCustomerStore) SaveAddress(_ context.Context, addr *store.Address) (uuid.UUID, error) {
	addr.ID = uuid.New()
	s.addresses = append(s.addresses, addr)
	return addr.ID, nil
}

type fakePaymentMethodStore struct {
	byCode map[string]*store.PaymentMethod
}

func (s *fakePaymentMethodStore) FindByCode(_ context.Context, code string) (*store.PaymentMethod, error) {
	if m, ok := s.byCode[code]; ok {
		return m, nil
	}
	return nil, store.ErrPaymentMethodNotFound
}

type fakeCarrierStore struct {
	byCode map[string]*store.DeliveryCarrier
}

func (s *fakeCarrierStore) FindOrCreate(_ context.Context, code, name string) (*store.DeliveryCarrier, error) {
	if c, ok := s.byCode[code]; ok {
		return c, nil
	}
	c := &store.DeliveryCarrier{ID: uuid.New(), Code: code, Name: name}
	s.byCode[code] = c
	return c, nil
}

type fakeOrderStore struct {
	*fakeUpserter
	byID      map[uuid.UUID]*store.SalesOrder
	lines     []*store.OrderLine
	confirmed []uuid.UUID
}

func (s *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*store.SalesOrder, error) {
	if o, ok := s.byID[id]; ok {
		return o, nil
	}
	return nil, store.ErrOrderNotFound
}

func (s *fakeOrderStore) FindByNumber(_ context.Context, number string) (*store.SalesOrder, error) {
	for _, o := range s.byID {
		if o.Number == number {
			return o, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (s *fakeOrderStore) AddLine(_ context.Context, line *store.OrderLine) (uuid.UUID, error) {
	line.ID = uuid.New()
	s.lines = append(s.lines, line)
	return line.ID, nil
}

func (s *fakeOrderStore) Confirm(_ context.Context, id uuid.UUID) error {
	s.confirmed = append(s.confirmed, id)
	return nil
}

type fakeStores struct {
	categories *fakeCategoryStore
	products   *fakeProductStore
	variants   *fakeVariantStore
	attributes *fakeAttributeStore
	terms      *fakeTermStore
	customers  *fakeCustomerStore
	methods    *fakePaymentMethodStore
	carriers   *fakeCarrierStore
	orders     *fakeOrderStore
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		categories: &fakeCategoryStore{fakeUpserter: newFakeUpserter()},
		products: &fakeProductStore{
			fakeUpserter: newFakeUpserter(),
			byID:         map[uuid.UUID]*store.Product{},
			bySKU:        map[string]*store.Product{},
			images:       map[uuid.UUID][]byte{},
			exported:     map[uuid.UUID]decimal.Decimal{},
		},
		variants: &fakeVariantStore{
			fakeUpserter: newFakeUpserter(),
			byID:         map[uuid.UUID]*store.Variant{},
		},
		attributes: &fakeAttributeStore{
			fakeUpserter: newFakeUpserter(),
			byName:       map[string]*store.Attribute{},
		},
		terms: &fakeTermStore{
			fakeUpserter: newFakeUpserter(),
			byName:       map[string]*store.AttributeTerm{},
		},
		customers: &fakeCustomerStore{
			fakeUpserter: newFakeUpserter(),
			byID:         map[uuid.UUID]*store.Customer{},
			byEmail:      map[string]*store.Customer{},
		},
		methods:  &fakePaymentMethodStore{byCode: map[string]*store.PaymentMethod{}},
		carriers: &fakeCarrierStore{byCode: map[string]*store.DeliveryCarrier{}},
		orders: &fakeOrderStore{
			fakeUpserter: newFakeUpserter(),
			byID:         map[uuid.UUID]*store.SalesOrder{},
		},
	}
}

func (s *fakeStores) Categories() store.CategoryStore          { return s.categories }
func (s *fakeStores) Products() store.ProductStore             { return s.products }
func (s *fakeStores) Variants() store.VariantStore             { return s.variants }
func (s *fakeStores) Attributes() store.AttributeStore         { return s.attributes }
func (s *fakeStores) Terms() store.TermStore                   { return s.terms }
func (s *fakeStores) Customers() store.CustomerStore           { return s.customers }
func (s *fakeStores) PaymentMethods() store.PaymentMethodStore { return s.methods }
func (s *fakeStores) Carriers() store.CarrierStore             { return s.carriers }
func (s *fakeStores) Orders() store.OrderStore                 { return s.orders }

func (s *fakeStores) UpserterFor(t connector.EntityType) store.Upserter {
	switch t {
	case connector.EntityCategory:
		return s.categories
	case connector.EntityProduct:
		return s.products
	case connector.EntityVariant:
		return s.variants
	case connector.EntityAttribute:
		return s.attributes
	case connector.EntityAttributeTerm:
		return s.terms
	case connector.EntityCustomer:
		return s.customers
	case connector.EntityOrder:
		return s.orders
	}
	return nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type harness struct {
	work     *Work
	flows    *Flows
	binders  *fakeBinderRegistry
	adapters *fakeAdapterRegistry
	stores   *fakeStores
	queue    *fakeQueue
	locker   *fakeLocker
	images   *fakeImages
}

func newHarness() *harness {
	h := &harness{
		flows:    NewFlows(),
		binders:  newFakeBinderRegistry(),
		adapters: newFakeAdapterRegistry(),
		stores:   newFakeStores(),
		queue:    &fakeQueue{},
		locker:   newFakeLocker(),
		images:   newFakeImages(),
	}
	h.work = &Work{
		Backend: &connector.Backend{
			ID:             uuid.New(),
			Name:           "shop",
			Location:       "https://shop.example.com",
			ConsumerKey:    "ck_test",
			ConsumerSecret: "cs_test",
			StockField:     connector.StockFieldForecast,
		},
		Binders:  h.binders,
		Adapters: h.adapters,
		Stores:   h.stores,
		Queue:    h.queue,
		Locker:   h.locker,
		Images:   h.images,
		Log:      zap.NewNop(),
	}
	return h
}
