package skeleton

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package wraps exactly one of them.
var (
	// ErrConstruction marks input that cannot be turned into a tree
	ErrConstruction = errors.New("skeleton construction failed")
	// ErrQuery marks a query that cannot be answered on a given tree
	ErrQuery = errors.New("skeleton query failed")
)

// Construction errors
var (
	ErrUnsupportedConnector = fmt.Errorf("%w: connectors are not supported", ErrConstruction)
	ErrDuplicateRoot        = fmt.Errorf("%w: more than one root node", ErrConstruction)
	ErrNoRoot               = fmt.Errorf("%w: no root node", ErrConstruction)
	ErrDanglingParent       = fmt.Errorf("%w: parent not present", ErrConstruction)
	ErrDuplicateNode        = fmt.Errorf("%w: duplicate node id", ErrConstruction)
	ErrCycle                = fmt.Errorf("%w: node not connected to root", ErrConstruction)
)

// Query errors
var (
	ErrEmptyTree       = fmt.Errorf("%w: tree has no edges", ErrQuery)
	ErrUnreachableRoot = fmt.Errorf("%w: parent chain does not reach root", ErrQuery)
	ErrVertexRange     = fmt.Errorf("%w: vertex index out of range", ErrQuery)
)
