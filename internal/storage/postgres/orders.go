package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

const selectOrder = `SELECT id, order_number, customer_name, street, city, phone_number,
                      total_price::text, notes, timestamp, status, tracking_code
                      FROM orders`

const selectAttachments = `SELECT id, order_id, type, url, name, object_key
                           FROM attachments WHERE order_id = ANY($1::uuid[]) ORDER BY name`

var newOrderID = uuid.New

// shipmentPayload is the JSONB form of courier options.
type shipmentPayload struct {
	ShipmentType            string          `json:"shipment_type"`
	ShipmentTypeValue       string          `json:"shipment_type_value"`
	PackageValue            decimal.Decimal `json:"package_value"`
	NumberOfPackages        int             `json:"number_packages"`
	ShippingPaymentMethod   string          `json:"shipping_payment_method"`
	CommissionPaymentMethod string          `json:"commission_payment_method"`
}

func toShipmentPayload(o model.ShipmentOptions) shipmentPayload {
	return shipmentPayload{
		ShipmentType:            o.ShipmentType,
		ShipmentTypeValue:       o.ShipmentTypeValue,
		PackageValue:            o.PackageValue,
		NumberOfPackages:        o.NumberOfPackages,
		ShippingPaymentMethod:   o.ShippingPaymentMethod,
		CommissionPaymentMethod: o.CommissionPaymentMethod,
	}
}

func (p shipmentPayload) options() model.ShipmentOptions {
	return model.ShipmentOptions{
		ShipmentType:            p.ShipmentType,
		ShipmentTypeValue:       p.ShipmentTypeValue,
		PackageValue:            p.PackageValue,
		NumberOfPackages:        p.NumberOfPackages,
		ShippingPaymentMethod:   p.ShippingPaymentMethod,
		CommissionPaymentMethod: p.CommissionPaymentMethod,
	}
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o      model.Order
		price  string
		status string
	)
	if err := row.Scan(&o.ID, &o.SequenceNumber, &o.CustomerName, &o.Address.Street, &o.Address.City,
		&o.PhoneNumber, &price, &o.Notes, &o.Timestamp, &status, &o.TrackingCode); err != nil {
		return model.Order{}, err
	}

	total, err := parseMoney("total_price", price)
	if err != nil {
		return model.Order{}, err
	}
	o.TotalPrice = total

	o.Status = model.OrderStatus(status)
	if !o.Status.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown order status %q", domainErrors.ErrPersistence, status)
	}
	o.Attachments = []model.Attachment{}
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, draft model.OrderDraft) (*model.OrderReceipt, error) {
	const insertOrder = `INSERT INTO orders (id, customer_name, street, city, phone_number, total_price, notes)
                         VALUES ($1, $2, $3, $4, $5, $6, $7)
                         RETURNING order_number`
	const insertShipment = `INSERT INTO shipment_requests (order_id, payload) VALUES ($1, $2)`

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	receipt := &model.OrderReceipt{ID: newOrderID()}
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrder, receipt.ID, draft.CustomerName, draft.Address.Street,
			draft.Address.City, draft.PhoneNumber, draft.TotalPrice, draft.Notes).Scan(&receipt.SequenceNumber)
		if err != nil {
			return err
		}

		if draft.Shipment != nil {
			if _, err := tx.Exec(ctx, insertShipment, receipt.ID, toShipmentPayload(*draft.Shipment)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate("create order", err)
	}
	return receipt, nil
}

func (r *orderRepository) AddAttachments(ctx context.Context, orderID uuid.UUID, attachments []model.Attachment) ([]model.Attachment, error) {
	if len(attachments) == 0 {
		return []model.Attachment{}, nil
	}

	var query strings.Builder
	query.WriteString(`INSERT INTO attachments (id, order_id, type, url, name, object_key) VALUES `)
	args := make([]any, 0, len(attachments)*6)
	stored := make([]model.Attachment, len(attachments))
	for i, a := range attachments {
		if i > 0 {
			query.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&query, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)

		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.OrderID = orderID
		args = append(args, a.ID, orderID, string(a.Type), a.URL, a.Name, a.ObjectKey)
		stored[i] = a
	}

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	if _, err := r.storage.pool.Exec(ctx, query.String(), args...); err != nil {
		return nil, translate("insert attachments", err)
	}
	return stored, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	var (
		where string
		args  []any
	)
	if filter.Status != nil {
		where = ` WHERE status = $1`
		args = append(args, string(*filter.Status))
	}

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	page := &model.OrderPage{Orders: []model.Order{}}
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&page.Total); err != nil {
		return nil, translate("count orders", err)
	}

	n := len(args)
	query := fmt.Sprintf("%s%s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d", selectOrder, where, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list orders", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, translate("list orders", err)
		}
		page.Orders = append(page.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list orders", err)
	}
	rows.Close()

	if err := r.joinAttachments(ctx, page.Orders); err != nil {
		return nil, err
	}
	return page, nil
}

func (r *orderRepository) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	o, err := scanOrder(r.storage.pool.QueryRow(ctx, selectOrder+` WHERE id = $1`, orderID))
	if err != nil {
		return nil, translate("get order", err)
	}

	orders := []model.Order{o}
	if err := r.joinAttachments(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// joinAttachments loads attachments of all orders with one query and groups them in memory.
func (r *orderRepository) joinAttachments(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.storage.pool.Query(ctx, selectAttachments, idStrings(ids))
	if err != nil {
		return translate("list attachments", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a    model.Attachment
			kind string
		)
		if err := rows.Scan(&a.ID, &a.OrderID, &kind, &a.URL, &a.Name, &a.ObjectKey); err != nil {
			return translate("list attachments", err)
		}
		a.Type = model.AttachmentType(kind)
		if i, ok := index[a.OrderID]; ok {
			orders[i].Attachments = append(orders[i].Attachments, a)
		}
	}
	if err := rows.Err(); err != nil {
		return translate("list attachments", err)
	}
	return nil
}

func (r *orderRepository) AttachmentKeys(ctx context.Context, orderID uuid.UUID) ([]string, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	rows, err := r.storage.pool.Query(ctx, `SELECT object_key FROM attachments WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, translate("attachment keys", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, translate("attachment keys", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("attachment keys", err)
	}
	return keys, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	return r.execOne(ctx, "update order status", `UPDATE orders SET status = $1 WHERE id = $2`, string(status), orderID)
}

func (r *orderRepository) SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error {
	return r.execOne(ctx, "set tracking code", `UPDATE orders SET tracking_code = $1 WHERE id = $2`, code, orderID)
}

func (r *orderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	return r.execOne(ctx, "delete order", `DELETE FROM orders WHERE id = $1`, orderID)
}

// execOne runs a single-row statement and reports a missing row as not found.
func (r *orderRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return translate(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domainErrors.ErrNotFound)
	}
	return nil
}
