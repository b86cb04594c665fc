package rdf

// Namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// Well-known IRIs.
const (
	RDFType       IRI = RDFNamespace + "type"
	RDFLangString IRI = RDFNamespace + "langString"
	RDFFirst      IRI = RDFNamespace + "first"
	RDFRest       IRI = RDFNamespace + "rest"
	RDFNil        IRI = RDFNamespace + "nil"

	RDFSSubClassOf IRI = RDFSNamespace + "subClassOf"

	OWLClass       IRI = OWLNamespace + "Class"
	OWLRestriction IRI = OWLNamespace + "Restriction"
	OWLVersionInfo IRI = OWLNamespace + "versionInfo"
	OWLUnionOf     IRI = OWLNamespace + "unionOf"

	XSDString             IRI = XSDNamespace + "string"
	XSDBoolean            IRI = XSDNamespace + "boolean"
	XSDInteger            IRI = XSDNamespace + "integer"
	XSDNonNegativeInteger IRI = XSDNamespace + "nonNegativeInteger"
	XSDDateTime           IRI = XSDNamespace + "dateTime"
)
