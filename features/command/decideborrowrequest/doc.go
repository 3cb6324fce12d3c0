// Package decideborrowrequest implements the owner's answer to a pending borrow request.
//
// Approving lends the thing to the requester (BORROWED). Rejecting makes it READY again
// and forgets the requester. Only the owner may decide, and answering again with the same
// decision is a no-op.
package decideborrowrequest
