package ir

import (
	"fmt"
	"strings"
)

// Violation kinds. Messages produced by the constructors below are part of
// the CLI output; keep them stable.
const (
	// field sets
	ViolationUnparsableFieldSet                 ViolationKind = "unparsableFieldSet"
	ViolationUndefinedFieldInFieldSet           ViolationKind = "undefinedFieldInFieldSet"
	ViolationUndefinedArgumentInFieldSet        ViolationKind = "undefinedArgumentInFieldSet"
	ViolationMissingRequiredArgumentInFieldSet  ViolationKind = "missingRequiredArgumentInFieldSet"
	ViolationInvalidSelectionSet                ViolationKind = "invalidSelectionSet"
	ViolationInvalidSelectionOnLeaf             ViolationKind = "invalidSelectionOnLeaf"
	ViolationAbstractTypeInKeyFieldSet          ViolationKind = "abstractTypeInKeyFieldSet"
	ViolationInvalidInlineFragmentTypeCondition ViolationKind = "invalidInlineFragmentTypeCondition"
	ViolationUnknownTypeConditionInFieldSet     ViolationKind = "unknownTypeConditionInFieldSet"
	ViolationInlineFragmentWithoutCondition     ViolationKind = "inlineFragmentWithoutTypeCondition"
	ViolationDuplicateFieldInFieldSet           ViolationKind = "duplicateFieldInFieldSet"
	ViolationAliasInFieldSet                    ViolationKind = "aliasInFieldSet"
	ViolationFragmentSpreadInFieldSet           ViolationKind = "fragmentSpreadInFieldSet"
	ViolationDirectiveInFieldSet                ViolationKind = "directiveInFieldSet"

	// normalization
	ViolationUnparsableSchema                 ViolationKind = "unparsableSchema"
	ViolationUnsupportedCompatibilityVersion  ViolationKind = "unsupportedCompatibilityVersion"
	ViolationDuplicateTypeDefinition          ViolationKind = "duplicateTypeDefinition"
	ViolationDuplicateDirectiveDefinition     ViolationKind = "duplicateDirectiveDefinition"
	ViolationDuplicateFieldDefinition         ViolationKind = "duplicateFieldDefinition"
	ViolationDuplicateArgumentDefinition      ViolationKind = "duplicateArgumentDefinition"
	ViolationDuplicateEnumValue               ViolationKind = "duplicateEnumValue"
	ViolationDuplicateUnionMember             ViolationKind = "duplicateUnionMember"
	ViolationDuplicateImplementedInterface    ViolationKind = "duplicateImplementedInterface"
	ViolationNoBaseDefinitionForExtension     ViolationKind = "noBaseDefinitionForExtension"
	ViolationIncompatibleExtensionKind        ViolationKind = "incompatibleExtensionKind"
	ViolationNoDefinedMembers                 ViolationKind = "noDefinedMembers"
	ViolationReservedName                     ViolationKind = "reservedName"
	ViolationUndefinedType                    ViolationKind = "undefinedType"
	ViolationInvalidOutputType                ViolationKind = "invalidOutputType"
	ViolationInvalidInputType                 ViolationKind = "invalidInputType"
	ViolationInvalidUnionMember               ViolationKind = "invalidUnionMember"
	ViolationUndefinedInterface               ViolationKind = "undefinedInterface"
	ViolationInvalidImplementedType           ViolationKind = "invalidImplementedType"
	ViolationInvalidInterfaceImplementation   ViolationKind = "invalidInterfaceImplementation"
	ViolationUndefinedDirective               ViolationKind = "undefinedDirective"
	ViolationInvalidDirectiveLocation         ViolationKind = "invalidDirectiveLocation"
	ViolationInvalidRepeatedDirective         ViolationKind = "invalidRepeatedDirective"
	ViolationInvalidDirectiveArgument         ViolationKind = "invalidDirectiveArgument"
	ViolationUndefinedRequiredArgument        ViolationKind = "undefinedRequiredDirectiveArgument"
	ViolationSelfOverride                     ViolationKind = "equivalentSourceAndTargetOverride"
	ViolationNonExternalConditionalKeyField   ViolationKind = "nonExternalConditionalKeyField"
	ViolationNonExternalConditionalField      ViolationKind = "nonExternalConditionalField"
	ViolationInvalidConditionalFieldSetTarget ViolationKind = "invalidProvidesOrRequiresType"
	ViolationInvalidEventDirectiveLocation    ViolationKind = "invalidEventDirectiveLocation"
	ViolationInvalidSubscriptionFilter        ViolationKind = "invalidSubscriptionFilterCondition"
	ViolationInvalidSubscriptionFilterSite    ViolationKind = "invalidSubscriptionFilterLocation"
	ViolationInterfaceObjectWithoutKey        ViolationKind = "interfaceObjectWithoutKey"
	ViolationAbstractTypeWithoutMembers       ViolationKind = "abstractTypeWithoutImplementations"

	// federation
	ViolationEmptySubgraphName             ViolationKind = "emptySubgraphName"
	ViolationDuplicateSubgraphName         ViolationKind = "duplicateSubgraphName"
	ViolationNoQueryRootType               ViolationKind = "noQueryRootType"
	ViolationIncompatibleParentKind        ViolationKind = "incompatibleParentKind"
	ViolationIncompatibleChildType         ViolationKind = "incompatibleChildType"
	ViolationAmbiguousConcreteTypeCoercion ViolationKind = "ambiguousConcreteTypeCoercion"
	ViolationMaxTypeNestingDepthExceeded   ViolationKind = "maxTypeNestingDepthExceeded"
	ViolationInvalidRequiredArgument       ViolationKind = "invalidRequiredArgument"
	ViolationIncompatibleArgumentType      ViolationKind = "incompatibleArgumentType"
	ViolationIncompatibleDefaultValueType  ViolationKind = "incompatibleDefaultValueType"
	ViolationIncompatibleDefaultValue      ViolationKind = "incompatibleDefaultValue"
	ViolationShareableFieldDefinitions     ViolationKind = "shareableFieldDefinitions"
	ViolationAllExternalFieldInstances     ViolationKind = "allExternalFieldInstances"
	ViolationDuplicateOverride             ViolationKind = "duplicateOverriddenFieldInstances"
	ViolationOverrideFromUnknownSubgraph   ViolationKind = "overrideFromUnknownSubgraph"
	ViolationIncompatibleSharedEnum        ViolationKind = "incompatibleSharedEnum"
	ViolationInvalidRequiredInputValue     ViolationKind = "invalidRequiredInputValue"
	ViolationOrScopesLimit                 ViolationKind = "orScopesLimit"

	// resolvability
	ViolationUnresolvableField          ViolationKind = "unresolvableField"
	ViolationUnreachableType            ViolationKind = "unreachableType"
	ViolationUnreachableEntity          ViolationKind = "unreachableEntity"
	ViolationUnresolvableAbstractBranch ViolationKind = "unresolvableAbstractBranch"
)

// ----- field sets -----

func ViolationUnparsable(directive, parent, fieldSet, parserMessage string) *Violation {
	return newViolation(ViolationUnparsableFieldSet,
		fmt.Sprintf("The @%s field set %q on %q could not be parsed: %s", directive, fieldSet, parent, parserMessage),
		parent)
}

func ViolationUndefinedField(fieldSet, parent, field string) *Violation {
	return newViolation(ViolationUndefinedFieldInFieldSet,
		fmt.Sprintf("Field set %q selects field %q, which is not defined on type %q", fieldSet, field, parent),
		Coordinates(parent, field))
}

func ViolationUndefinedArgument(fieldSet, coords, arg string) *Violation {
	return newViolation(ViolationUndefinedArgumentInFieldSet,
		fmt.Sprintf("Field set %q passes argument %q, which is not defined on %q", fieldSet, arg, coords),
		coords)
}

func ViolationMissingRequiredArgument(fieldSet, coords, arg string) *Violation {
	return newViolation(ViolationMissingRequiredArgumentInFieldSet,
		fmt.Sprintf("Field set %q selects %q without its required argument %q", fieldSet, coords, arg),
		coords)
}

func ViolationMissingSelectionSet(fieldSet, coords, typeName string) *Violation {
	return newViolation(ViolationInvalidSelectionSet,
		fmt.Sprintf("Field set %q selects %q of composite type %q without a selection set", fieldSet, coords, typeName),
		coords)
}

func ViolationSelectionOnLeaf(fieldSet, coords, typeName string) *Violation {
	return newViolation(ViolationInvalidSelectionOnLeaf,
		fmt.Sprintf("Field set %q defines a selection set on %q, but its type %q is a leaf type", fieldSet, coords, typeName),
		coords)
}

func ViolationAbstractTypeInKey(fieldSet, coords, typeName string) *Violation {
	return newViolation(ViolationAbstractTypeInKeyFieldSet,
		fmt.Sprintf("Key field set %q selects %q of abstract type %q; key fields cannot return interfaces or unions", fieldSet, coords, typeName),
		coords)
}

func ViolationInvalidTypeCondition(fieldSet, parent, condition string) *Violation {
	return newViolation(ViolationInvalidInlineFragmentTypeCondition,
		fmt.Sprintf("Field set %q contains an inline fragment on %q, which is not a possible type of %q", fieldSet, condition, parent),
		parent)
}

func ViolationUnknownTypeCondition(fieldSet, parent, condition string) *Violation {
	return newViolation(ViolationUnknownTypeConditionInFieldSet,
		fmt.Sprintf("Field set %q contains an inline fragment on undefined type %q", fieldSet, condition),
		parent)
}

func ViolationMissingTypeCondition(fieldSet, parent string) *Violation {
	return newViolation(ViolationInlineFragmentWithoutCondition,
		fmt.Sprintf("Field set %q contains an inline fragment without a type condition inside %q", fieldSet, parent),
		parent)
}

func ViolationDuplicateField(fieldSet, coords string) *Violation {
	return newViolation(ViolationDuplicateFieldInFieldSet,
		fmt.Sprintf("Field set %q selects %q more than once", fieldSet, coords),
		coords)
}

func ViolationAlias(fieldSet, coords string) *Violation {
	return newViolation(ViolationAliasInFieldSet,
		fmt.Sprintf("Field set %q aliases %q; aliases are not allowed in field sets", fieldSet, coords),
		coords)
}

func ViolationFragmentSpread(fieldSet, parent string) *Violation {
	return newViolation(ViolationFragmentSpreadInFieldSet,
		fmt.Sprintf("Field set %q contains a fragment spread; only inline fragments are allowed", fieldSet),
		parent)
}

func ViolationDirective(fieldSet, parent, directive string) *Violation {
	return newViolation(ViolationDirectiveInFieldSet,
		fmt.Sprintf("Field set %q uses directive @%s; directives are not allowed in field sets", fieldSet, directive),
		parent)
}

// ----- normalization -----

func ViolationUnparsableDocument(message string) *Violation {
	return newViolation(ViolationUnparsableSchema, "The subgraph schema could not be parsed: "+message)
}

func ViolationUnsupportedVersion(version CompatibilityVersion) *Violation {
	return newViolation(ViolationUnsupportedCompatibilityVersion,
		fmt.Sprintf("Compatibility version %q is not supported; supported versions: %q", version, CompatibilityVersion1))
}

func ViolationDuplicateType(name string) *Violation {
	return newViolation(ViolationDuplicateTypeDefinition,
		fmt.Sprintf("Type %q is defined more than once", name), name)
}

func ViolationDuplicateDirective(name string) *Violation {
	return newViolation(ViolationDuplicateDirectiveDefinition,
		fmt.Sprintf("Directive @%s is defined more than once", name), "@"+name)
}

func ViolationDuplicateFieldDef(kind, typeName, field string) *Violation {
	return newViolation(ViolationDuplicateFieldDefinition,
		fmt.Sprintf("Duplicate field %q found in %s %q", field, strings.ToLower(kind), typeName),
		Coordinates(typeName, field))
}

func ViolationDuplicateArgument(coords, arg string) *Violation {
	return newViolation(ViolationDuplicateArgumentDefinition,
		fmt.Sprintf("Argument %q is defined more than once on %q", arg, coords), coords)
}

func ViolationDuplicateEnumValueDef(enumName, value string) *Violation {
	return newViolation(ViolationDuplicateEnumValue,
		fmt.Sprintf("Duplicate enum value %q found in enum %q", value, enumName),
		Coordinates(enumName, value))
}

func ViolationDuplicateMember(union, member string) *Violation {
	return newViolation(ViolationDuplicateUnionMember,
		fmt.Sprintf("Union %q lists member %q more than once", union, member), union)
}

func ViolationDuplicateInterface(typeName, iface string) *Violation {
	return newViolation(ViolationDuplicateImplementedInterface,
		fmt.Sprintf("Type %q implements interface %q more than once", typeName, iface), typeName)
}

func ViolationExtensionWithoutBase(kind, name string) *Violation {
	return newViolation(ViolationNoBaseDefinitionForExtension,
		fmt.Sprintf("Extension of %s %q has no base definition", strings.ToLower(kind), name), name)
}

func ViolationExtensionKind(name, baseKind, extensionKind string) *Violation {
	return newViolation(ViolationIncompatibleExtensionKind,
		fmt.Sprintf("Type %q is defined as %s but extended as %s", name, baseKind, extensionKind), name)
}

func ViolationNoMembers(kind, name string) *Violation {
	what := "field"
	switch kind {
	case "UNION":
		what = "member"
	case "ENUM":
		what = "value"
	}
	return newViolation(ViolationNoDefinedMembers,
		fmt.Sprintf("%s type %q must define at least one %s", kindTitle(kind), name, what), name)
}

func ViolationReservedPrefix(what, name string) *Violation {
	return newViolation(ViolationReservedName,
		fmt.Sprintf("%s name %q cannot start with '__' (reserved prefix)", what, name), name)
}

func ViolationTypeNotFound(typeName, coords string) *Violation {
	return newViolation(ViolationUndefinedType,
		fmt.Sprintf("Type %q referenced by %q is not defined", typeName, coords), coords)
}

func ViolationTypeNotOutput(typeName, coords string) *Violation {
	return newViolation(ViolationInvalidOutputType,
		fmt.Sprintf("Type %q used by %q is not an output type", typeName, coords), coords)
}

func ViolationTypeNotInput(typeName, coords string) *Violation {
	return newViolation(ViolationInvalidInputType,
		fmt.Sprintf("Type %q used by %q is not an input type", typeName, coords), coords)
}

func ViolationUnionMemberNotObject(union, member string) *Violation {
	return newViolation(ViolationInvalidUnionMember,
		fmt.Sprintf("Union %q member %q must be a defined object type", union, member), union)
}

func ViolationInterfaceNotFound(typeName, iface string) *Violation {
	return newViolation(ViolationUndefinedInterface,
		fmt.Sprintf("Type %q implements undefined interface %q", typeName, iface), typeName)
}

func ViolationNotAnInterface(typeName, iface string) *Violation {
	return newViolation(ViolationInvalidImplementedType,
		fmt.Sprintf("Type %q implements %q, which is not an interface", typeName, iface), typeName)
}

// ImplementationIssue is one mismatch between an implementing type and an interface.
type ImplementationIssue struct {
	Interface string
	Field     string
	Problem   string
}

func ViolationInterfaceImplementation(typeName string, issues []ImplementationIssue) *Violation {
	var b strings.Builder
	fmt.Fprintf(&b, "Type %q does not correctly implement its interfaces:", typeName)
	coords := []string{typeName}
	for _, is := range issues {
		if is.Field != "" {
			fmt.Fprintf(&b, "\n  %s.%s: %s", is.Interface, is.Field, is.Problem)
			coords = append(coords, Coordinates(typeName, is.Field))
		} else {
			fmt.Fprintf(&b, "\n  %s: %s", is.Interface, is.Problem)
		}
	}
	return newViolation(ViolationInvalidInterfaceImplementation, b.String(), coords...)
}

func ViolationUnknownDirective(name, coords string) *Violation {
	return newViolation(ViolationUndefinedDirective,
		fmt.Sprintf("Directive @%s used on %q is not defined", name, coords), coords)
}

func ViolationDirectiveLocation(name, location, coords string) *Violation {
	return newViolation(ViolationInvalidDirectiveLocation,
		fmt.Sprintf("Directive @%s is not allowed on %s %q", name, location, coords), coords)
}

func ViolationRepeatedDirective(name, coords string) *Violation {
	return newViolation(ViolationInvalidRepeatedDirective,
		fmt.Sprintf("Directive @%s is not repeatable but appears more than once on %q", name, coords), coords)
}

func ViolationDirectiveArgument(name, arg, coords, problem string) *Violation {
	return newViolation(ViolationInvalidDirectiveArgument,
		fmt.Sprintf("Argument %q of @%s on %q is invalid: %s", arg, name, coords, problem), coords)
}

func ViolationMissingDirectiveArgument(name, arg, coords string) *Violation {
	return newViolation(ViolationUndefinedRequiredArgument,
		fmt.Sprintf("Directive @%s on %q is missing required argument %q", name, coords, arg), coords)
}

func ViolationOverrideSelf(coords, subgraph string) *Violation {
	return newViolation(ViolationSelfOverride,
		fmt.Sprintf("Field %q overrides its own subgraph %q", coords, subgraph), coords)
}

func ViolationConditionalKeyField(directive, declaring, field string) *Violation {
	return newViolation(ViolationNonExternalConditionalKeyField,
		fmt.Sprintf("Key field %q is referenced by @%s on %q but is not declared @external", field, directive, declaring),
		declaring, field)
}

func ViolationConditionalField(directive, declaring, field string) *Violation {
	return newViolation(ViolationNonExternalConditionalField,
		fmt.Sprintf("Field %q is referenced by @%s on %q but is neither @external nor part of a key", field, directive, declaring),
		declaring, field)
}

func ViolationConditionalTarget(directive, coords, typeName string) *Violation {
	return newViolation(ViolationInvalidConditionalFieldSetTarget,
		fmt.Sprintf("@%s on %q requires a composite type, but the field returns %q", directive, coords, typeName), coords)
}

func ViolationEventLocation(directive, coords, expectedRoot string) *Violation {
	return newViolation(ViolationInvalidEventDirectiveLocation,
		fmt.Sprintf("Event directive @%s on %q must be defined on a field of %q", directive, coords, expectedRoot), coords)
}

func ViolationSubscriptionFilter(coords, problem string) *Violation {
	return newViolation(ViolationInvalidSubscriptionFilter,
		fmt.Sprintf("Subscription filter on %q is invalid: %s", coords, problem), coords)
}

func ViolationSubscriptionFilterSite(coords string) *Violation {
	return newViolation(ViolationInvalidSubscriptionFilterSite,
		fmt.Sprintf("@openfed__subscriptionFilter on %q must be defined on a field of %q", coords, SubscriptionTypeName), coords)
}

func ViolationInterfaceObjectKey(typeName string) *Violation {
	return newViolation(ViolationInterfaceObjectWithoutKey,
		fmt.Sprintf("Interface object %q must define at least one @key", typeName), typeName)
}

func ViolationAbstractWithoutMembers(coords, typeName string) *Violation {
	return newViolation(ViolationAbstractTypeWithoutMembers,
		fmt.Sprintf("Field %q returns %q, which has no implementations or members in this subgraph", coords, typeName),
		coords)
}

// ----- federation -----

func ViolationSubgraphNameEmpty(index int) *Violation {
	return newViolation(ViolationEmptySubgraphName, fmt.Sprintf("Subgraph at position %d has no name", index))
}

func ViolationSubgraphNameDuplicate(name string) *Violation {
	return newViolation(ViolationDuplicateSubgraphName, fmt.Sprintf("Subgraph name %q is used more than once", name))
}

func ViolationNoQueryType() *Violation {
	return newViolation(ViolationNoQueryRootType, "The federated graph must define at least one query root field")
}

func ViolationParentKind(typeName string, kindsBySubgraph map[string]string, subgraphs []string) *Violation {
	parts := make([]string, 0, len(subgraphs))
	for _, s := range subgraphs {
		parts = append(parts, fmt.Sprintf("%s in %q", kindsBySubgraph[s], s))
	}
	return newViolation(ViolationIncompatibleParentKind,
		fmt.Sprintf("Type %q is defined with incompatible kinds: %s", typeName, strings.Join(parts, ", ")), typeName)
}

func ViolationChildType(coords, existing, existingSubgraph, incoming, incomingSubgraph string) *Violation {
	return newViolation(ViolationIncompatibleChildType,
		fmt.Sprintf("%q has incompatible types %q (subgraph %q) and %q (subgraph %q)", coords, existing, existingSubgraph, incoming, incomingSubgraph),
		coords)
}

func ViolationAmbiguousCoercion(coords, abstract string, candidates, subgraphs []string) *Violation {
	return newViolation(ViolationAmbiguousConcreteTypeCoercion,
		fmt.Sprintf("%q returns %q in some subgraphs but the concrete types %s in others (subgraphs %s); the coercion is ambiguous",
			coords, abstract, quoteJoin(candidates), quoteJoin(subgraphs)),
		coords)
}

func ViolationNestingDepth(coords string, max int) *Violation {
	return newViolation(ViolationMaxTypeNestingDepthExceeded,
		fmt.Sprintf("The type of %q exceeds the maximum nesting depth of %d", coords, max), coords)
}

func ViolationRequiredArgument(coords, arg string, requiredIn, missingIn []string) *Violation {
	return newViolation(ViolationInvalidRequiredArgument,
		fmt.Sprintf("Argument %q of %q is required in subgraphs %s but not defined in subgraphs %s",
			arg, coords, quoteJoin(requiredIn), quoteJoin(missingIn)),
		coords)
}

func ViolationArgumentType(coords, arg, existing, incoming string) *Violation {
	return newViolation(ViolationIncompatibleArgumentType,
		fmt.Sprintf("Argument %q of %q has incompatible types %q and %q", arg, coords, existing, incoming), coords)
}

func ViolationDefaultValueType(coords string, values []string) *Violation {
	return newViolation(ViolationIncompatibleDefaultValueType,
		fmt.Sprintf("%q declares default values of incompatible types: %s", coords, strings.Join(values, ", ")), coords)
}

func ViolationDefaultValue(coords string, values []string) *Violation {
	return newViolation(ViolationIncompatibleDefaultValue,
		fmt.Sprintf("%q declares different default values: %s", coords, strings.Join(values, ", ")), coords)
}

func ViolationShareability(coords string, subgraphs []string) *Violation {
	return newViolation(ViolationShareableFieldDefinitions,
		fmt.Sprintf("Field %q is resolved by subgraphs %s but is not declared @shareable in all of them", coords, quoteJoin(subgraphs)),
		coords)
}

func ViolationAllExternal(coords string, subgraphs []string) *Violation {
	return newViolation(ViolationAllExternalFieldInstances,
		fmt.Sprintf("Field %q is declared @external in every defining subgraph (%s); no subgraph resolves it", coords, quoteJoin(subgraphs)),
		coords)
}

func ViolationOverrideDuplicate(coords string, subgraphs []string) *Violation {
	return newViolation(ViolationDuplicateOverride,
		fmt.Sprintf("Field %q is overridden by more than one subgraph: %s", coords, quoteJoin(subgraphs)), coords)
}

func ViolationOverrideUnknown(coords, from string) *Violation {
	return newViolation(ViolationOverrideFromUnknownSubgraph,
		fmt.Sprintf("Field %q overrides subgraph %q, which does not define it", coords, from), coords)
}

func ViolationSharedEnum(enumName string) *Violation {
	return newViolation(ViolationIncompatibleSharedEnum,
		fmt.Sprintf("Enum %q is used as both input and output and must define identical values in every subgraph", enumName),
		enumName)
}

func ViolationRequiredInputValue(typeName, field string, missingIn []string) *Violation {
	return newViolation(ViolationInvalidRequiredInputValue,
		fmt.Sprintf("Input field %q is required but not defined in subgraphs %s", Coordinates(typeName, field), quoteJoin(missingIn)),
		Coordinates(typeName, field))
}

func ViolationOrScopes(max int, coords []string) *Violation {
	return newViolation(ViolationOrScopesLimit,
		fmt.Sprintf("The merged @requiresScopes of the following coordinates exceed the maximum of %d OR scopes: %s", max, quoteJoin(coords)),
		coords...)
}

// ----- resolvability -----

func ViolationUnresolvable(coords, path string, subgraphs []string) *Violation {
	return newViolation(ViolationUnresolvableField,
		fmt.Sprintf("Field %q cannot be resolved when reached through %q: none of subgraphs %s can be entered from the subgraphs resolving the parent",
			coords, path, quoteJoin(subgraphs)),
		coords)
}

func ViolationUnreachable(typeName string) *Violation {
	return newViolation(ViolationUnreachableType,
		fmt.Sprintf("Type %q is not reachable from any root operation type", typeName), typeName)
}

func ViolationUnreachableEntityType(typeName string) *Violation {
	return newViolation(ViolationUnreachableEntity,
		fmt.Sprintf("Entity %q is not reachable from any root operation type", typeName), typeName)
}

func ViolationAbstractBranch(typeName string) *Violation {
	return newViolation(ViolationUnresolvableAbstractBranch,
		fmt.Sprintf("Abstract type %q has no reachable concrete member whose fields all resolve", typeName), typeName)
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func kindTitle(kind string) string {
	switch kind {
	case "OBJECT":
		return "Object"
	case "INTERFACE":
		return "Interface"
	case "UNION":
		return "Union"
	case "ENUM":
		return "Enum"
	case "INPUT_OBJECT":
		return "Input object"
	case "SCALAR":
		return "Scalar"
	}
	return kind
}
