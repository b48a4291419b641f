package client

// GraphQL documents for the venue's query, mutation, and subscription
// surfaces. Field sets match the venue schema; variables are passed
// separately.

const tickerSubscription = `
	subscription getTicker($symbol: String!) {
		ticker(symbol: $symbol) {
			price
			timestamp
		}
	}
`

const statisticsSubscription = `
	subscription onStatisticsEvent($symbol: String!) {
		statistics(symbol: $symbol) {
			eventType
			timestamp
			fundingRateBips
			nextFundingEpoch
		}
	}
`

const bboSubscription = `
	subscription onBboEvent($symbol: String!, $instrumentType: InstrumentType!) {
		bbo(symbol: $symbol, instrumentType: $instrumentType) {
			eventType
			timestamp
			instruments {
				id
				markPrice
			}
		}
	}
`

const orderbookSubscription = `
	subscription onOrderbookEvent($instrumentHash: ID!) {
		orderbook(instrumentHash: $instrumentHash) {
			eventType
			timestamp
			bidLevels {
				direction
				size
				price
			}
			askLevels {
				direction
				size
				price
			}
		}
	}
`

const subaccountOrdersSubscription = `
	subscription onSubaccountOrderEvent($subaccount: BigInt!) {
		subaccountOrders(subaccount: $subaccount) {
			eventType
			orders {
				instrument {
					id
				}
				direction
				size
				remainingSize
				orderHash
				status
				orderType
				limitPrice
			}
		}
	}
`

const subaccountBalancesSubscription = `
	subscription onSubaccountBalanceEvent($address: Address!) {
		subaccountBalances(address: $address) {
			eventType
			balances {
				subaccount
				subaccountID
				balance
				assetName
			}
		}
	}
`

const subaccountPositionsSubscription = `
	subscription onSubaccountPositionEvent($address: Address!) {
		subaccountPositions(address: $address) {
			eventType
			positions {
				instrument {
					id
				}
				subaccount
				marketHash
				sizeHeld
				isLong
				averageCost
			}
		}
	}
`

const perpetualPairsQuery = `
	query PerpetualPairs {
		perpetualPairs {
			marketHash
			instrumentHash
			symbol
			baseCurrency
			minOrderSize
			maxOrderSize
			minOrderSizeIncrement
			minPriceIncrement
			initialMarginBips
			preferredSubaccount
			subaccount
		}
	}
`

const accountDetailsQuery = `
	query AccountDetails {
		accountDetails {
			tier
			makerFeeBips
			takerFeeBips
		}
	}
`

const transferHistoryQuery = `
	query TransferHistory(
		$subaccount: BigInt!
		$marketHash: String
		$transferType: TransferType
		$cursor: String
	) {
		transferHistory(
			subaccount: $subaccount
			marketHash: $marketHash
			transferType: $transferType
			cursor: $cursor
		) {
			data {
				transactionHash
				name
				symbol
				type
				subaccount
				amount
				price
				fees
				baseCurrency
				fundingRate
				isShort
				timestamp
			}
			cursor
		}
	}
`

const placeOrderMutation = `
	mutation PlaceOrder(
		$orderInput: PlaceOrderInput!
		$signature: SignatureInput!
	) {
		placeOrderV2(
			orderInput: $orderInput
			signature: $signature
		)
	}
`

const cancelOrderMutation = `
	mutation CancelOrder($orderHash: String!) {
		cancelOrderV2(orderHash: $orderHash)
	}
`
