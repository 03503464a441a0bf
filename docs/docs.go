// Package docs registers the OpenAPI document served under /swagger.
// The template mirrors the swag annotations on the handlers in webapi and
// cmd/server. Regenerate with `swag init -g cmd/server/main.go` after
// changing them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "basePath": "{{.BasePath}}",
    "definitions": {
        "common.ProblemDetails": {
            "properties": {
                "code": {
                    "type": "string"
                },
                "detail": {
                    "type": "string"
                },
                "errors": {},
                "instance": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "transaction_id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "common.Response": {
            "properties": {
                "data": {
                    "description": "Response data"
                },
                "message": {
                    "description": "Human-readable explanation",
                    "type": "string"
                },
                "status": {
                    "description": "HTTP status code",
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "dto.Bucket": {
            "properties": {
                "count": {
                    "type": "integer"
                },
                "status": {
                    "enum": [
                        "PENDING",
                        "COMPLETED",
                        "FAILED",
                        "ROLLED_BACK"
                    ],
                    "type": "string"
                },
                "total": {
                    "$ref": "#/definitions/money.Money"
                },
                "type": {
                    "enum": [
                        "CREDIT",
                        "DEBIT"
                    ],
                    "type": "string"
                }
            },
            "type": "object"
        },
        "dto.LedgerSummary": {
            "properties": {
                "buckets": {
                    "items": {
                        "$ref": "#/definitions/dto.Bucket"
                    },
                    "type": "array"
                },
                "completed_count": {
                    "type": "integer"
                },
                "credited": {
                    "$ref": "#/definitions/money.Money"
                },
                "debited": {
                    "$ref": "#/definitions/money.Money"
                },
                "failed_count": {
                    "type": "integer"
                },
                "generated_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "net": {
                    "$ref": "#/definitions/money.Money"
                },
                "pending_count": {
                    "type": "integer"
                },
                "rolled_back_count": {
                    "type": "integer"
                },
                "since": {
                    "format": "date-time",
                    "type": "string"
                },
                "user_id": {
                    "format": "uuid",
                    "type": "string"
                },
                "wallet_id": {
                    "format": "uuid",
                    "type": "string"
                },
                "window_days": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "dto.Reconciliation": {
            "properties": {
                "balance": {
                    "$ref": "#/definitions/money.Money"
                },
                "checked_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "consistent": {
                    "type": "boolean"
                },
                "difference": {
                    "$ref": "#/definitions/money.Money"
                },
                "ledger_balance": {
                    "$ref": "#/definitions/money.Money"
                },
                "pending_count": {
                    "type": "integer"
                },
                "wallet_id": {
                    "format": "uuid",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "dto.SweepReport": {
            "properties": {
                "cutoff": {
                    "format": "date-time",
                    "type": "string"
                },
                "errors": {
                    "type": "integer"
                },
                "failed_out": {
                    "type": "integer"
                },
                "scanned": {
                    "type": "integer"
                },
                "skipped": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "money.Money": {
            "properties": {
                "amount": {
                    "example": "70.00",
                    "type": "string"
                },
                "currency": {
                    "example": "INR",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "transaction.ReferenceDTO": {
            "properties": {
                "id": {
                    "type": "string"
                },
                "type": {
                    "enum": [
                        "ORDER",
                        "REFUND",
                        "PAYMENT_GATEWAY",
                        "ADMIN_ADJUSTMENT",
                        "WITHDRAWAL"
                    ],
                    "type": "string"
                }
            },
            "type": "object"
        },
        "transaction.ReversalDTO": {
            "properties": {
                "balance": {
                    "type": "string"
                },
                "compensating": {
                    "$ref": "#/definitions/transaction.TransactionDTO"
                },
                "currency": {
                    "type": "string"
                },
                "original": {
                    "$ref": "#/definitions/transaction.TransactionDTO"
                }
            },
            "type": "object"
        },
        "transaction.ReverseRequest": {
            "properties": {
                "actor": {
                    "enum": [
                        "USER",
                        "ADMIN",
                        "SYSTEM"
                    ],
                    "type": "string"
                },
                "reason": {
                    "maxLength": 200,
                    "type": "string"
                }
            },
            "type": "object"
        },
        "transaction.TransactionDTO": {
            "properties": {
                "amount": {
                    "example": "30.00",
                    "type": "string"
                },
                "balance_after": {
                    "type": "string"
                },
                "completed_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "created_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "failed_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "failure_reason": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "idempotency_key": {
                    "type": "string"
                },
                "initiated_by": {
                    "enum": [
                        "USER",
                        "ADMIN",
                        "SYSTEM"
                    ],
                    "type": "string"
                },
                "reference": {
                    "$ref": "#/definitions/transaction.ReferenceDTO"
                },
                "reversal_of": {
                    "type": "string"
                },
                "rolled_back_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "status": {
                    "enum": [
                        "PENDING",
                        "COMPLETED",
                        "FAILED",
                        "ROLLED_BACK"
                    ],
                    "type": "string"
                },
                "transaction_type": {
                    "enum": [
                        "CREDIT",
                        "DEBIT"
                    ],
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                },
                "wallet_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "wallet.MovementRequest": {
            "properties": {
                "actor": {
                    "enum": [
                        "USER",
                        "ADMIN",
                        "SYSTEM"
                    ],
                    "type": "string"
                },
                "amount": {
                    "example": "30.00",
                    "type": "string"
                },
                "currency": {
                    "example": "INR",
                    "type": "string"
                },
                "description": {
                    "maxLength": 255,
                    "type": "string"
                },
                "idempotency_key": {
                    "maxLength": 128,
                    "type": "string"
                },
                "reference_id": {
                    "maxLength": 128,
                    "type": "string"
                },
                "reference_type": {
                    "enum": [
                        "ORDER",
                        "REFUND",
                        "PAYMENT_GATEWAY",
                        "ADMIN_ADJUSTMENT",
                        "WITHDRAWAL"
                    ],
                    "type": "string"
                }
            },
            "required": [
                "amount"
            ],
            "type": "object"
        },
        "wallet.MovementResponse": {
            "properties": {
                "replayed": {
                    "type": "boolean"
                },
                "transaction": {
                    "$ref": "#/definitions/transaction.TransactionDTO"
                },
                "wallet": {
                    "$ref": "#/definitions/wallet.WalletDTO"
                }
            },
            "type": "object"
        },
        "wallet.TransactionListResponse": {
            "properties": {
                "items": {
                    "items": {
                        "$ref": "#/definitions/transaction.TransactionDTO"
                    },
                    "type": "array"
                },
                "limit": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "wallet.WalletDTO": {
            "properties": {
                "balance": {
                    "example": "70.00",
                    "type": "string"
                },
                "created_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "last_transaction_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "status": {
                    "enum": [
                        "ACTIVE",
                        "BLOCKED",
                        "INACTIVE"
                    ],
                    "type": "string"
                },
                "updated_at": {
                    "format": "date-time",
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                },
                "version": {
                    "type": "integer"
                }
            },
            "type": "object"
        }
    },
    "host": "{{.Host}}",
    "info": {
        "contact": {
            "email": "fiber@swagger.io",
            "name": "API Support"
        },
        "description": "{{escape .Description}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/MIT"
        },
        "termsOfService": "http://swagger.io/terms/",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/transactions/pending": {
            "get": {
                "description": "Returns PENDING rows created more than older_than_minutes ago, oldest first.\nAt most LEDGER_MAX_PAGE_SIZE rows are returned. Sweep or raise older_than_minutes to see the rest.",
                "parameters": [
                    {
                        "default": 0,
                        "description": "Minimum age in minutes",
                        "in": "query",
                        "name": "older_than_minutes",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Pending transactions",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "items": {
                                                "$ref": "#/definitions/transaction.TransactionDTO"
                                            },
                                            "type": "array"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid age",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "List pending transactions",
                "tags": [
                    "transactions"
                ]
            }
        },
        "/transactions/sweep": {
            "post": {
                "description": "Marks every PENDING row older than the pending timeout as FAILED with reason ABANDONED.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Sweep finished",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.SweepReport"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    }
                },
                "summary": "Sweep abandoned transactions",
                "tags": [
                    "transactions"
                ]
            }
        },
        "/transactions/{id}": {
            "get": {
                "description": "Returns one ledger row, in any status.",
                "parameters": [
                    {
                        "description": "Transaction ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Transaction fetched",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/transaction.TransactionDTO"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid transaction ID",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Transaction not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Get a transaction",
                "tags": [
                    "transactions"
                ]
            }
        },
        "/transactions/{id}/reverse": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Applies an opposite-direction compensating transaction and marks the original ROLLED_BACK. A rejected compensation leaves the original COMPLETED and can be retried.",
                "parameters": [
                    {
                        "description": "Transaction ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Reversal details",
                        "in": "body",
                        "name": "request",
                        "schema": {
                            "$ref": "#/definitions/transaction.ReverseRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Transaction reversed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/transaction.ReversalDTO"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Transaction not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Not reversible",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "422": {
                        "description": "Insufficient balance for the compensation",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Reverse a transaction",
                "tags": [
                    "transactions"
                ]
            }
        },
        "/wallets/{userId}": {
            "get": {
                "description": "Returns the balance, currency, status and version of the user's wallet.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Wallet fetched",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.WalletDTO"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid user ID",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Get wallet balance",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/block": {
            "post": {
                "description": "Blocks, unblocks or deactivates the user's wallet. Deactivation is final.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Status changed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.WalletDTO"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Change wallet status",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/credit": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Adds funds to the user's wallet, creating it on the first credit. A repeated idempotency key returns the first result with replayed=true.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Idempotency key",
                        "in": "header",
                        "name": "Idempotency-Key",
                        "type": "string"
                    },
                    {
                        "description": "Credit details",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/wallet.MovementRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Replayed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.MovementResponse"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "201": {
                        "description": "Wallet credited",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.MovementResponse"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Wallet blocked, inactive or idempotency conflict",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "422": {
                        "description": "Currency mismatch",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "500": {
                        "description": "Transaction stuck",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Credit a wallet",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/deactivate": {
            "post": {
                "description": "Blocks, unblocks or deactivates the user's wallet. Deactivation is final.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Status changed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.WalletDTO"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Change wallet status",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/debit": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Removes funds. An over-debit is recorded as a FAILED transaction whose id is returned in the problem details.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Idempotency key",
                        "in": "header",
                        "name": "Idempotency-Key",
                        "type": "string"
                    },
                    {
                        "description": "Debit details",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/wallet.MovementRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Replayed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.MovementResponse"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "201": {
                        "description": "Wallet debited",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.MovementResponse"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Wallet blocked, inactive or idempotency conflict",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "422": {
                        "description": "Insufficient balance or currency mismatch",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "500": {
                        "description": "Transaction stuck",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Debit a wallet",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/reconciliation": {
            "get": {
                "description": "Recomputes the balance from applied ledger rows and compares it with the stored balance.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Reconciliation done",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.Reconciliation"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Verify wallet consistency",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/stats": {
            "get": {
                "description": "Aggregates the ledger over the trailing window_days (30 by default, at most 365). Results are cached per wallet version.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 30,
                        "description": "Window in days",
                        "in": "query",
                        "name": "window_days",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Stats computed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.LedgerSummary"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid window",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Wallet stats",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/summary": {
            "get": {
                "description": "Aggregates the user's whole ledger per type and status.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Summary computed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.LedgerSummary"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Wallet ledger summary",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/transactions": {
            "get": {
                "description": "Returns one page of the user's transactions, newest first unless sort=asc.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "CREDIT or DEBIT",
                        "in": "query",
                        "name": "type",
                        "type": "string"
                    },
                    {
                        "description": "PENDING, COMPLETED, FAILED or ROLLED_BACK",
                        "in": "query",
                        "name": "status",
                        "type": "string"
                    },
                    {
                        "description": "Reference type",
                        "in": "query",
                        "name": "reference_type",
                        "type": "string"
                    },
                    {
                        "description": "Reference id",
                        "in": "query",
                        "name": "reference_id",
                        "type": "string"
                    },
                    {
                        "description": "Created at or after (RFC 3339)",
                        "in": "query",
                        "name": "from",
                        "type": "string"
                    },
                    {
                        "description": "Created before, exclusive (RFC 3339)",
                        "in": "query",
                        "name": "to",
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "description": "Page size",
                        "in": "query",
                        "name": "limit",
                        "type": "integer"
                    },
                    {
                        "default": "desc",
                        "description": "asc or desc",
                        "in": "query",
                        "name": "sort",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Transactions fetched",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.TransactionListResponse"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid filter",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "List wallet transactions",
                "tags": [
                    "wallets"
                ]
            }
        },
        "/wallets/{userId}/unblock": {
            "post": {
                "description": "Blocks, unblocks or deactivates the user's wallet. Deactivation is final.",
                "parameters": [
                    {
                        "description": "User ID",
                        "in": "path",
                        "name": "userId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Status changed",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/common.Response"
                                },
                                {
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/wallet.WalletDTO"
                                        }
                                    },
                                    "type": "object"
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Wallet not found",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/common.ProblemDetails"
                        }
                    }
                },
                "summary": "Change wallet status",
                "tags": [
                    "wallets"
                ]
            }
        }
    },
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0"
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Wallet Ledger API",
	Description:      "Wallet balances with an append-only transaction log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
