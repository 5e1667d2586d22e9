// Package cancelorder implements the Cancel Order use case.
//
// The owner of an order or a staff member may cancel it while it is PENDING or PROCESSING.
// Cancelling returns every line's quantity to the stock ledger exactly once: the restoration and the
// status change are one unit of work, and the order version makes a second, concurrent cancellation
// fail instead of restoring again.
package cancelorder
