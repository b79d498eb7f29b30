package cloner

import (
	"strings"

	"github.com/ilweave/mixweave/model"
)

// SignaturesEqualUnderSubstitution implements §4.D's "Method-signature
// equality under cloning": two signatures are equal if, after substituting
// the target root type's full name back to the source root type's full
// name in the target signature, the string forms match. The root-import
// engine applies the same check through its own copy (importer's
// signatureMatchesAcrossRoots) to match a closed-generic or nested method
// back to its open counterpart across the rewritten module boundary, since the target method's Signature() string still
// names the target root type wherever the source once named the source
// root, even though every other part of the signature already matches.
func SignaturesEqualUnderSubstitution(sourceSignature string, targetMethod model.MethodDef, sourceRoot, targetRoot model.TypeDef) bool {
	substituted := strings.ReplaceAll(targetMethod.Signature(), targetRoot.FullName(), sourceRoot.FullName())

	return substituted == sourceSignature
}

// FindMatchingMethod searches candidates (normally a type's Methods()) for
// the one whose signature equals sourceMethod's under root-name
// substitution, returning ErrSignatureMatchMissing if none match.
func FindMatchingMethod(sourceMethod model.MethodDef, candidates []model.MethodDef, sourceRoot, targetRoot model.TypeDef) (model.MethodDef, error) {
	want := sourceMethod.Signature()

	for _, candidate := range candidates {
		if SignaturesEqualUnderSubstitution(want, candidate, sourceRoot, targetRoot) {
			return candidate, nil
		}
	}

	return nil, ErrSignatureMatchMissing
}
