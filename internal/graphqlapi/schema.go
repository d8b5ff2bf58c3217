package graphqlapi

const schema = `
schema {
	query: Query
	mutation: Mutation
}

enum RiskLevel {
	extreme
	high
	moderate
	low
}

enum DangerCategory {
	chemical
	electrical
	mechanical
	biological
	radiation
}

enum DangerStatus {
	active
	contained
	mitigated
	eliminated
}

type Danger {
	id: ID!
	title: String!
	description: String
	riskLevel: RiskLevel!
	category: DangerCategory!
	location: String!
	# 1 to 10
	consequenceRating: Int!
	dateReported: String!
	lastInspection: String!
	reportedBy: String!
	status: DangerStatus!
	protectiveEquipment: [String!]!
	containmentProcedures: [String!]!
}

type DangerStats {
	totalCount: Int!
	byRiskLevel: [RiskLevelCount!]!
	byCategory: [CategoryCount!]!
	# extreme + high
	criticalLevels: Int!
}

type RiskLevelCount {
	riskLevel: RiskLevel!
	count: Int!
}

type CategoryCount {
	category: DangerCategory!
	count: Int!
}

type SecurityLog {
	id: ID!
	timestamp: String!
	operation: String!
	dangerId: ID
	details: String!
	operatorLevel: Int!
}

type Query {
	dangers(riskLevel: RiskLevel, category: DangerCategory, minRating: Int): [Danger!]!
	danger(id: ID!): Danger
	dangersByRiskLevel(level: RiskLevel!): [Danger!]!
	dangersByCategory(category: DangerCategory!): [Danger!]!
	dangerStats: DangerStats!
	# Requires clearance 5.
	securityLogs(limit: Int): [SecurityLog!]!
}

type Mutation {
	createDanger(
		title: String!
		description: String
		riskLevel: RiskLevel!
		category: DangerCategory!
		location: String!
		consequenceRating: Int!
		protectiveEquipment: [String!]
		containmentProcedures: [String!]
	): Danger!
	# Requires clearance 4, or 5 for an extreme hazard.
	deleteDanger(id: ID!): Boolean!
	updateDangerStatus(id: ID!, status: DangerStatus!): Danger!
	recordInspection(id: ID!): Danger!
}
`
