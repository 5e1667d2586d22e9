// Package updateorderstatus implements the Update Order Status use case for staff.
//
// The transition table is strict: a target outside the table, including the current status itself,
// is rejected. Entering SHIPPED stamps ShippedAt and records carrier and tracking number if supplied,
// entering DELIVERED stamps DeliveredAt, and entering CANCELLED returns all reserved stock in the same
// unit of work. A concurrent transition of the same order is detected by the order version and retried
// against the fresh state.
package updateorderstatus
