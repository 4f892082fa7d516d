package pipeline

const sampleCSV = `name,year,selling_price,km_driven,fuel,seller_type,transmission,owner,mileage,engine,max_power,seats,torque
Maruti Swift Dzire VDI,2014,450000,145500,Diesel,Individual,Manual,First Owner,23.4 kmpl,1248 CC,74 bhp,5,190Nm@ 2000rpm
Skoda Rapid 1.5 TDI Ambition,2014,370000,120000,Diesel,Individual,Manual,Second Owner,21.14 kmpl,1498 CC,103.52 bhp,5,250Nm@ 1500-2500rpm
Honda City 2017-2020 EXi,2006,158000,140000,Petrol,Individual,Manual,Third Owner,17.7 kmpl,1497 CC,78 bhp,5,"12.7@ 2,700(kgm@ rpm)"
Maruti Swift Dzire VDI,2014,450000,145500,Diesel,Individual,Manual,First Owner,23.4 kmpl,1248 CC,74 bhp,5,190Nm@ 2000rpm
Hyundai i20 Sportz Diesel,2010,225000,127000,Diesel,Individual,Manual,First Owner,,,,,
Toyota Innova 2.5 VX,2012,600000,90000,Diesel,Dealer,Manual,First Owner,12.99 kmpl,2494 CC, bhp,7,200Nm@ 1400-3400rpm
`
