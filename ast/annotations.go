package ast

// Annotation keys consumed by the core passes, per the data model in
// SPEC_FULL.md §3. Annotations are a free-form bag rather than typed fields
// on BaseNode because, as in the teacher's `_transform` diagnostic field,
// most nodes never carry any of them and most passes only ever look at one
// or two keys.
const (
	// AnnotationDispatcherSkip marks a subtree Dispatcher must not touch.
	AnnotationDispatcherSkip = "$dispatcherSkip"

	// AnnotationControlFlowFlattening marks a block CFF has rewritten;
	// consumed by SwitchCaseObfuscation-style downstream passes (not part
	// of this repo's core four, but the annotation is still produced so a
	// later pass could key off it).
	AnnotationControlFlowFlattening = "$controlFlowFlattening"

	// AnnotationRequiresEval marks a function whose body reads its
	// enclosing lexical scope dynamically. Excludes RGF and Dispatcher.
	AnnotationRequiresEval = "$requiresEval"

	// AnnotationEval holds a deferred callback to run after a subtree has
	// been re-processed (see RGF's nested-pipeline re-entry).
	AnnotationEval = "$eval"

	// AnnotationTransform is a diagnostic: the last transform that rewrote
	// this node, set when Options.DebugComments is on.
	AnnotationTransform = "_transform"

	// AnnotationHidden marks a declaration inserted synthetically by a
	// pass; excluded from several analyses (e.g. Flatten's defined-above
	// search never needs to "rediscover" its own injected vars).
	AnnotationHidden = "hidden"
)

// Annotate sets an annotation on a node, creating the bag lazily.
func Annotate(n Node, key string, value any) {
	n.annotations()[key] = value
}

// GetAnnotation reads an annotation off a node.
func GetAnnotation(n Node, key string) (any, bool) {
	v, ok := n.annotations()[key]
	return v, ok
}

// HasAnnotation reports whether a node carries the given annotation key.
func HasAnnotation(n Node, key string) bool {
	_, ok := n.annotations()[key]
	return ok
}

// RemoveAnnotation deletes an annotation from a node, if present.
func RemoveAnnotation(n Node, key string) {
	delete(n.annotations(), key)
}
