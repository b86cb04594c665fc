package testutil

// Turtle fixtures shared by package tests. They describe a small soap-opera
// ontology in four revisions plus one raw data file.
const prefixes = `@prefix : <http://example.com/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
`

// Data is a raw data file with one instance.
const Data = prefixes + `@prefix foaf: <http://xmlns.com/foaf/0.1/> .
<http://example.com/John> rdf:type <http://example.com/Person>.
`

// Structure01 declares two classes.
const Structure01 = prefixes + `
:Actor rdf:type owl:Class .
:SoapOpera rdf:type owl:Class .
`

// Structure02 adds a role class restricted by one qualified cardinality
// restriction.
const Structure02 = prefixes + `
:Actor rdf:type owl:Class .
:SoapOpera rdf:type owl:Class .
:RoleOnSoapOpera rdf:type owl:Class .

:role rdf:type owl:Class ;
                rdfs:subClassOf [
                    rdf:type owl:Restriction ;
                    owl:onProperty :play_a_role ;
                    owl:onClass :RoleOnSoapOpera ;
                    owl:minQualifiedCardinality "1"^^xsd:nonNegativeInteger ;
                    owl:maxQualifiedCardinality "1"^^xsd:nonNegativeInteger
                ] .
`

// Structure03 splits the restriction of Structure02 in two.
const Structure03 = prefixes + `
:Actor rdf:type owl:Class .
:SoapOpera rdf:type owl:Class .
:RoleOnSoapOpera rdf:type owl:Class .

:role rdf:type owl:Class ;
                rdfs:subClassOf [
                    rdf:type owl:Restriction ;
                    owl:onProperty :play_a_role ;
                    owl:onClass :RoleOnSoapOpera ;
                    owl:minQualifiedCardinality "1111"^^xsd:nonNegativeInteger
                ] ,
                [
                    rdf:type owl:Restriction ;
                    owl:onProperty :play_a_role ;
                    owl:onClass :RoleOnSoapOpera ;
                    owl:maxQualifiedCardinality "3333"^^xsd:nonNegativeInteger
                ] .
`

// Structure04 drops the max cardinality of Structure02.
const Structure04 = prefixes + `
:Actor rdf:type owl:Class .
:SoapOpera rdf:type owl:Class .
:RoleOnSoapOpera rdf:type owl:Class .

:role rdf:type owl:Class ;
                rdfs:subClassOf [
                    rdf:type owl:Restriction ;
                    owl:onProperty :play_a_role ;
                    owl:onClass :RoleOnSoapOpera ;
                    owl:minQualifiedCardinality "1"^^xsd:nonNegativeInteger
                ] .
`

// Union01 makes SoapOpera the union of Actor and RoleOnSoapOpera.
const Union01 = prefixes + `
:Actor rdf:type owl:Class .
:RoleOnSoapOpera rdf:type owl:Class .

:SoapOpera rdf:type owl:Class ;
                owl:unionOf ( :Actor :RoleOnSoapOpera ) .
`

// Union02 swaps the second member of the Union01 collection for role.
const Union02 = prefixes + `
:Actor rdf:type owl:Class .
:RoleOnSoapOpera rdf:type owl:Class .

:SoapOpera rdf:type owl:Class ;
                owl:unionOf ( :Actor :role ) .
`

// Common IRIs used by the fixtures.
const (
	NS              = "http://example.com/"
	Role            = NS + "role"
	RoleOnSoapOpera = NS + "RoleOnSoapOpera"
	PlayARole       = NS + "play_a_role"
	Actor           = NS + "Actor"
	SoapOpera       = NS + "SoapOpera"
)
