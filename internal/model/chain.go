package model

// ArgShape is the coarse shape of a call's argument list. The resolver only
// needs to distinguish single scalars from arrays, never concrete values.
type ArgShape string

const (
	// ArgsNone means the call had no arguments.
	ArgsNone ArgShape = "none"
	// ArgsScalar means a single literal scalar argument.
	ArgsScalar ArgShape = "scalar"
	// ArgsArray means a single array-literal argument.
	ArgsArray ArgShape = "array"
	// ArgsVariable means a single variable argument.
	ArgsVariable ArgShape = "variable"
	// ArgsOther covers every remaining argument arrangement.
	ArgsOther ArgShape = "other"
)

// CallChainSegment is one method invocation inside a fluent chain.
type CallChainSegment struct {
	Method string
	Static bool
	Args   ArgShape
	Line   int
}

// ReceiverKind tags the variants of ReceiverIdentity.
type ReceiverKind string

const (
	// ReceiverLiteralType is a class name used directly: Order::query().
	ReceiverLiteralType ReceiverKind = "literal-type"
	// ReceiverVariable is a plain variable: $orders->…
	ReceiverVariable ReceiverKind = "variable"
	// ReceiverPropertyAccess is a property read: $order->items->…
	ReceiverPropertyAccess ReceiverKind = "property-access"
	// ReceiverUnknown covers receivers the extractor cannot describe.
	ReceiverUnknown ReceiverKind = "unknown"
)

// ReceiverIdentity describes what a chain hangs off. It is a closed tagged
// variant: Kind selects which of the remaining fields are meaningful.
type ReceiverIdentity struct {
	Kind      ReceiverKind
	Name      string // literal-type: simple class name; variable: variable name
	Namespace string // literal-type only, empty when unqualified
	Owner     string // property-access: textual owner expression
	Property  string // property-access: property name
}

// CallChain is a receiver plus at least one segment in source order.
type CallChain struct {
	Receiver ReceiverIdentity
	Segments []CallChainSegment
}
